package model

// Signal is the trading-style label summarizing a category's trajectory.
type Signal string

const (
	SignalBuy      Signal = "BUY"
	SignalHold     Signal = "HOLD"
	SignalSell     Signal = "SELL"
	SignalEmerging Signal = "EMERGING"
)

// MarketMover is a read-time aggregate over the catalog for one category.
// It is recomputed on every query and never persisted.
type MarketMover struct {
	Category      string  `json:"category"`
	GrowthPct     float64 `json:"growth_pct"`
	AvgTrendScore float64 `json:"avg_trend_score"`
	ArticleCount  int     `json:"article_count"`
	Signal        Signal  `json:"signal"`
}

// MarketOverview is the dashboard payload: ranked winner and loser
// categories for one segment/zone slice.
type MarketOverview struct {
	Segment    string        `json:"segment,omitempty"`
	MarketZone string        `json:"market_zone,omitempty"`
	Winners    []MarketMover `json:"winners"`
	Losers     []MarketMover `json:"losers"`
}
