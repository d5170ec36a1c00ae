package main

import (
	"context"
	"log"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
	repeatsKey = "repeats"
)

func main() {
	profileFlag := &cli.StringFlag{
		Name:  profileKey,
		Usage: "Write a CPU profile to this file",
	}

	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark propagation and watchers over tracked state",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Computed chains fed by a proxy field, read by effects",
				Flags: []cli.Flag{
					profileFlag,
					&cli.IntFlag{
						Name:  itersKey,
						Usage: "Writes per graph",
						Value: 100,
					},
				},
				Action: profiled(propagate),
			},
			{
				Name:  "watch",
				Usage: "Deep watchers over nested state",
				Flags: []cli.Flag{
					profileFlag,
					&cli.IntFlag{
						Name:  repeatsKey,
						Usage: "Runs per config, the fastest is reported",
						Value: 5,
					},
				},
				Action: profiled(watch),
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func profiled(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		name := cmd.String(profileKey)
		if name == "" {
			return action(ctx, cmd)
		}

		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()

		log.Printf("writing CPU profile to %s", name)
		return action(ctx, cmd)
	}
}
