package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/delaneyj/proxyparty/reactivity"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type watchConfig struct {
	name       string
	items      int     // items in the watched list
	watchers   int     // deep watchers on the root
	iterations int     // writes per run
	addFrac    float64 // fraction of writes that append instead of update
}

type entry struct {
	Label string
	Count int
	Meta  map[string]int
}

type ledger struct {
	Entries []entry
	Totals  map[string]int
}

func watch(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting watch benchmark, please wait...")
	defer log.Print("Finished watch benchmark")

	configs := []watchConfig{
		{name: "single watcher", items: 10, watchers: 1, iterations: 10_000},
		{name: "many watchers", items: 10, watchers: 100, iterations: 1_000},
		{name: "large state", items: 1_000, watchers: 1, iterations: 200},
		{name: "growing", items: 10, watchers: 10, iterations: 1_000, addFrac: 0.1},
	}
	repeats := int(cmd.Int(repeatsKey))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "items", "watchers", "nTimes", "callbacks", "time", "updateRate",
	})

	for _, cfg := range configs {
		log.Printf("Running '%s' config", cfg.name)

		var best time.Duration
		var callbacks int64
		for i := 0; i < repeats; i++ {
			d, calls, err := runWatch(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.name, err)
			}
			if i == 0 || d < best {
				best, callbacks = d, calls
			}
		}

		updateRate := float64(callbacks) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			cfg.name,
			humanize.Comma(int64(cfg.items)),
			humanize.Comma(int64(cfg.watchers)),
			humanize.Comma(int64(cfg.iterations)),
			humanize.Comma(callbacks),
			fmt.Sprint(best),
			humanize.Comma(int64(updateRate)),
		})
	}
	table.Render()
	return nil
}

func runWatch(cfg watchConfig) (time.Duration, int64, error) {
	rs := reactivity.CreateReactiveSystem(func(from *reactivity.ReactiveEffect, err error) {
		log.Panic(err)
	})

	raw := &ledger{Totals: map[string]int{}}
	for i := 0; i < cfg.items; i++ {
		raw.Entries = append(raw.Entries, entry{
			Label: fmt.Sprintf("entry %d", i),
			Meta:  map[string]int{"created": i},
		})
	}
	root, err := reactivity.ReactiveProxy(rs, raw)
	if err != nil {
		return 0, 0, err
	}

	var calls int64
	for i := 0; i < cfg.watchers; i++ {
		if _, err := reactivity.Watch(rs, root, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
			calls++
		}); err != nil {
			return 0, 0, err
		}
	}

	entries := reactivity.GetAs[*reactivity.Proxy](root, "Entries")
	totals := reactivity.GetAs[*reactivity.Proxy](root, "Totals")
	random := rand.New(rand.NewSource(0))

	start := time.Now()
	for i := 0; i < cfg.iterations; i++ {
		if random.Float64() < cfg.addFrac {
			if err := entries.Append(entry{Label: fmt.Sprintf("added %d", i)}); err != nil {
				return 0, 0, err
			}
			continue
		}

		n := entries.Len()
		e := reactivity.GetAs[*reactivity.Proxy](entries, random.Intn(n))
		if err := e.Set("Count", reactivity.GetAs[int](e, "Count")+1); err != nil {
			return 0, 0, err
		}
		if err := totals.Set("writes", i+1); err != nil {
			return 0, 0, err
		}
	}
	return time.Since(start), calls, nil
}
