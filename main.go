package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milk9111/signpost/common"
	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	playerName := flag.String("player", "player", "actor spec in prefabs/actors (basename, .yaml optional)")
	metricsAddr := flag.String("metrics", "", "serve prometheus metrics on this address, e.g. :2112")
	watch := flag.Bool("watch", false, "hot reload prefabs/ on change")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			logger.Info("metrics: listening", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics: server stopped", "err", err)
			}
		}()
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("signpost")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(Config{
		Player: *playerName,
		Watch:  *watch,
		Logger: logger,
		Metric: m,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
