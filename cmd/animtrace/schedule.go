package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// cue fires a trigger once the clock reaches At seconds.
type cue struct {
	At      float64
	Trigger string
}

// parseSchedule reads "0.2:attack,0.9:roll" into cues sorted by time.
func parseSchedule(s string) ([]cue, error) {
	var cues []cue
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		at, trigger, ok := strings.Cut(part, ":")
		if !ok || trigger == "" {
			return nil, fmt.Errorf("animtrace: cue %q: want seconds:trigger", part)
		}
		t, err := strconv.ParseFloat(at, 64)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("animtrace: cue %q: bad time", part)
		}
		cues = append(cues, cue{At: t, Trigger: trigger})
	}
	sort.SliceStable(cues, func(i, j int) bool { return cues[i].At < cues[j].At })
	return cues, nil
}

// due pops every cue scheduled at or before now.
func due(cues []cue, now float64) (fire []string, rest []cue) {
	i := 0
	for i < len(cues) && cues[i].At <= now {
		fire = append(fire, cues[i].Trigger)
		i++
	}
	return fire, cues[i:]
}
