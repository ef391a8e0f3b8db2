// Command animtrace runs an animation controller without a window, fires
// triggers on a schedule and prints the lifecycle callbacks each state saw.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/milk9111/signpost/anim"
	"github.com/milk9111/signpost/common"
	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
	"github.com/milk9111/signpost/prefabs"
	"github.com/milk9111/signpost/script"
	"github.com/milk9111/signpost/transition"
)

func main() {
	controller := flag.String("controller", "player", "controller in prefabs/controllers (basename, .yaml optional)")
	layerName := flag.String("layer", "", "layer to trace (default: first layer)")
	schedule := flag.String("cues", "0.2:attack", "trigger schedule as seconds:trigger, comma separated")
	seconds := flag.Float64("t", 2, "seconds to simulate")
	updates := flag.Bool("updates", false, "include per-tick callbacks")
	scriptName := flag.String("script", "", "tengo script in prefabs/scripts to run on -script-state")
	scriptState := flag.String("script-state", "attack", "state the script observes")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	spec, err := prefabs.LoadController(*controller)
	if err != nil {
		log.Fatal(err)
	}
	cues, err := parseSchedule(*schedule)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	a, err := anim.NewAnimator(spec, anim.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	ls := spec.Layers[0]
	if *layerName != "" {
		found := false
		for _, l := range spec.Layers {
			if l.Name == *layerName {
				ls, found = l, true
				break
			}
		}
		if !found {
			log.Fatalf("animtrace: %v: %q", anim.ErrUnknownLayer, *layerName)
		}
	}

	trace := transition.NewTrace(0)
	trace.Updates = *updates

	var lc *script.Lifecycle
	if *scriptName != "" {
		src, err := prefabs.LoadScript(*scriptName)
		if err != nil {
			log.Fatal(err)
		}
		lc, err = script.NewLifecycle(*scriptName, src, host{a: a, logger: logger}, script.WithLogger(logger))
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, st := range ls.States {
		targets := transition.Lifecycles{trace.For(st.Name)}
		if lc != nil && st.Name == *scriptState {
			targets = append(targets, lc)
		}
		o := transition.NewObserver(targets, transition.WithLogger(logger), transition.WithMetrics(m))
		if err := a.Attach(ls.Name, st.Name, o); err != nil {
			log.Fatal(err)
		}
	}

	dt := 1.0 / float64(common.TPS)
	for now := 0.0; now < *seconds; now += dt {
		var fire []string
		fire, cues = due(cues, now)
		for _, t := range fire {
			a.SetTrigger(t)
		}
		a.Update(dt)
	}

	fmt.Print(trace.String())
	if err := printViolations(reg); err != nil {
		log.Fatal(err)
	}
}

// printViolations reports observer protocol violations on stderr.
func printViolations(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if mf.GetName() != "signpost_transition_violations_total" {
			continue
		}
		for _, mt := range mf.GetMetric() {
			kind := ""
			for _, lp := range mt.GetLabel() {
				if lp.GetName() == "kind" {
					kind = lp.GetValue()
				}
			}
			fmt.Fprintf(os.Stderr, "violation %s: %v\n", kind, mt.GetCounter().GetValue())
		}
	}
	return nil
}

type host struct {
	a      *anim.Animator
	logger *slog.Logger
}

func (h host) SetTrigger(name string) { h.a.SetTrigger(name) }

func (h host) Emit(event string) {
	h.logger.Info("animtrace: script event", "event", event)
}
