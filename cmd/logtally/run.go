package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tinytelemetry/logtally/internal/analyzer"
	"github.com/tinytelemetry/logtally/internal/ingest"
	"github.com/tinytelemetry/logtally/internal/logparse"
	"github.com/tinytelemetry/logtally/internal/render"
	"golang.org/x/sync/errgroup"
)

// pipeline holds everything resolved from configuration before ingestion starts.
type pipeline struct {
	period   analyzer.Period
	parser   *logparse.Parser
	renderer render.Renderer
	limit    int
	workers  int
	plugins  []InputSourcePlugin
}

// runResult is what a completed run produced, used for the summary.
type runResult struct {
	Counters *analyzer.Counters
	Stats    ingest.Stats
	Sources  int
	Elapsed  time.Duration
}

// newPipeline validates the configuration. Every error it returns is fatal
// and happens before any input is read.
func newPipeline(cfg appConfig, stdin io.Reader) (*pipeline, error) {
	period := analyzer.UnboundedPeriod()
	if cfg.TimeRange != "" {
		var err error
		period, err = analyzer.ParsePeriod(cfg.TimeRange)
		if err != nil {
			return nil, fmt.Errorf("time-range: %w", err)
		}
	}

	renderer, err := render.New(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}

	parser, err := logparse.NewParser(cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("log-format: %w", err)
	}

	return &pipeline{
		period:   period,
		parser:   parser,
		renderer: renderer,
		limit:    cfg.Hosts,
		workers:  cfg.Workers,
		plugins: buildInputPlugins(InputPluginConfig{
			Files:       cfg.Files,
			Stdin:       stdin,
			MaxLineSize: cfg.MaxLineSize,
		}),
	}, nil
}

// ingest reads every source with its own counter pair and merges the pairs
// in source order once all workers are done. A source is opened only when a
// worker slot is free, so at most p.workers inputs are open at once.
func (p *pipeline) ingest(ctx context.Context) (*runResult, error) {
	started := time.Now()

	if err := checkPlugins(p.plugins); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}

	parts := make([]*analyzer.Counters, len(p.plugins))
	for i := range parts {
		counters, err := analyzer.NewCounters(p.period)
		if err != nil {
			return nil, err
		}
		parts[i] = counters
	}

	stats := make([]ingest.Stats, len(p.plugins))
	for i, plugin := range p.plugins {
		i, plugin := i, plugin
		g.Go(func() error {
			src, err := plugin.Build(gctx)
			if err != nil {
				return err
			}
			defer src.Stop()
			proc := ingest.NewProcessor(p.parser, parts[i])
			err = proc.Run(src)
			stats[i] = proc.Stats()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := analyzer.MergeAll(p.period, parts)
	if err != nil {
		return nil, err
	}

	res := &runResult{
		Counters: merged,
		Sources:  len(p.plugins),
		Elapsed:  time.Since(started),
	}
	for _, s := range stats {
		res.Stats.Add(s)
	}
	return res, nil
}

// render formats the merged counters.
func (p *pipeline) render(res *runResult) ([]byte, error) {
	out, err := p.renderer.Render(render.Params{
		Hourly: res.Counters.Hourly,
		Hosts:  res.Counters.Hosts,
		Limit:  p.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// run executes one full invocation and writes the report to stdout.
func run(ctx context.Context, cfg appConfig, stdin io.Reader, stdout, stderr io.Writer) error {
	p, err := newPipeline(cfg, stdin)
	if err != nil {
		return err
	}

	res, err := p.ingest(ctx)
	if err != nil {
		return err
	}

	out, err := p.render(res)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if cfg.Verbose {
		printRunSummary(stderr, cfg, p, res)
	}
	return nil
}
