package actor

import (
	"log/slog"

	"github.com/milk9111/signpost/exchange"
	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

// World is what every actor shares: the global exchange plus the ambient
// logger and metrics.
type World struct {
	Exchange *exchange.Exchange
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func NewWorld(logger *slog.Logger, m *metrics.Metrics) *World {
	logger = logging.OrNop(logger)
	x := exchange.New(
		exchange.WithName("world"),
		exchange.WithLogger(logger),
		exchange.WithMetrics(m),
	)
	// Both are interfaces with methods, so Declare cannot fail.
	_ = exchange.Declare[InputListener](x)
	_ = exchange.Declare[HitListener](x)
	return &World{Exchange: x, Logger: logger, Metrics: m}
}
