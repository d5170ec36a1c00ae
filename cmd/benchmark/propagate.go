package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/proxyparty/reactivity"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

type source struct {
	Value int
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(itersKey))
	log.Printf("propagating %d writes per graph", iters)

	tbl := table.NewWriter()
	tbl.SetTitle("Proxy propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "runs"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := reactivity.CreateReactiveSystem(func(from *reactivity.ReactiveEffect, err error) {
				log.Panic(err)
			})
			src, err := reactivity.ReactiveProxy(rs, &source{Value: 1})
			if err != nil {
				return err
			}

			for i := 0; i < w; i++ {
				last := reactivity.Computed(rs, func() int {
					return reactivity.GetAs[int](src, "Value") + 1
				})
				for j := 1; j < h; j++ {
					prev := last
					last = reactivity.Computed(rs, func() int {
						return prev.Value() + 1
					})
				}

				if _, err := reactivity.Effect(rs, func() error {
					last.Value()
					return nil
				}); err != nil {
					return err
				}
			}

			before := rs.Stats().EffectRuns
			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := src.Set("Value", i+2); err != nil {
					return err
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					rs.Stats().EffectRuns - before,
				},
			})
		}
	}

	tbl.Render()
	return nil
}
