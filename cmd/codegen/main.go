package main

import (
	"context"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/delaneyj/proxyparty/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	shapesKey = "shapes"
	outKey    = "out"
	importKey = "import"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed views over tracked state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     shapesKey,
				Usage:    "YAML file describing the types to generate views for",
				Required: true,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file, defaults to <shapes>_state.gen.go next to the shape file",
			},
			&cli.StringFlag{
				Name:  importKey,
				Usage: "Import path of the reactivity package, overrides the shape file",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	shapes := cmd.String(shapesKey)
	log.Printf("Codegen for %s started", shapes)
	defer func() {
		log.Printf("Codegen for %s finished in %v", shapes, time.Since(start))
	}()

	data, err := os.ReadFile(shapes)
	if err != nil {
		return err
	}
	f, err := templates.Parse(filepath.Base(shapes), data)
	if err != nil {
		return err
	}
	if imp := cmd.String(importKey); imp != "" {
		f.Import = imp
	}

	out := cmd.String(outKey)
	if out == "" {
		base := filepath.Base(shapes)
		out = filepath.Join(filepath.Dir(shapes), base[:len(base)-len(filepath.Ext(base))]+"_state.gen.go")
	}

	contents, err := render(f)
	if err != nil {
		return err
	}
	log.Printf("Writing %d types to %s", len(f.Types), out)
	return os.WriteFile(out, contents, 0644)
}

func render(f *templates.File) ([]byte, error) {
	src := templates.Accessors(f)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return formatted, nil
}
