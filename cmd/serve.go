package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/ingest"
	"github.com/atelierhq/trend-cli/internal/market"
	"github.com/atelierhq/trend-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ingestion webhook and read API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, err := buildIngestService(store)
		if err != nil {
			return err
		}
		aggregator := market.NewAggregator(store, cfg.Market)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(store, svc, aggregator),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(store catalog.Store, svc *ingest.Service, aggregator *market.Aggregator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/webhook/ingest", func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Items      []model.RawItem `json:"items"`
			Source     string          `json:"source"`
			MarketZone string          `json:"market_zone"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(payload.Items) == 0 {
			writeError(w, http.StatusBadRequest, "items is required")
			return
		}

		report, err := svc.Run(req.Context(), payload.Items, ingest.Options{
			Source:     payload.Source,
			MarketZone: payload.MarketZone,
		})
		if err != nil {
			zap.L().Error("webhook ingestion failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "ingestion failed")
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	r.Get("/market/overview", func(w http.ResponseWriter, req *http.Request) {
		q := market.Query{
			Segment:    model.ParseSegment(req.URL.Query().Get("segment")),
			MarketZone: req.URL.Query().Get("market_zone"),
		}
		overview, err := aggregator.Overview(req.Context(), q)
		if err != nil {
			zap.L().Error("market overview failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "aggregation failed")
			return
		}
		writeJSON(w, http.StatusOK, overview)
	})

	r.Get("/catalog", func(w http.ResponseWriter, req *http.Request) {
		filter, err := parseFilter(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entries, err := store.List(req.Context(), filter)
		if err != nil {
			zap.L().Error("catalog list failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		if entries == nil {
			entries = []model.CatalogEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
	})

	r.Get("/catalog/{id}", func(w http.ResponseWriter, req *http.Request) {
		entry, err := store.GetEntry(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	})

	return r
}

func parseFilter(req *http.Request) (catalog.EntryFilter, error) {
	q := req.URL.Query()
	filter := catalog.EntryFilter{
		Segment:    model.ParseSegment(q.Get("segment")),
		MarketZone: q.Get("market_zone"),
		Category:   q.Get("category"),
		Style:      q.Get("style"),
		Limit:      100,
	}

	for name, dst := range map[string]*float64{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return filter, eris.Errorf("invalid %s", name)
			}
			*dst = v
		}
	}
	for name, dst := range map[string]*int{
		"limit":  &filter.Limit,
		"offset": &filter.Offset,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return filter, eris.Errorf("invalid %s", name)
			}
			*dst = v
		}
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
