package main

import (
	"context"
	"io"

	"github.com/tinytelemetry/logtally/internal/logsource"
)

// NamedLogSource aliases the shared source abstraction to keep app-layer APIs explicit.
type NamedLogSource = logsource.LogSource

// InputSourcePlugin is a small plugin primitive for wiring log inputs.
// Check runs before ingestion so unusable inputs fail the run early; Build
// opens the source when a worker is ready to read it.
type InputSourcePlugin interface {
	Name() string
	Check() error
	Build(ctx context.Context) (NamedLogSource, error)
}

// InputPluginConfig defines runtime input selection.
type InputPluginConfig struct {
	Files       []string  // "-" selects stdin; empty means stdin only
	Stdin       io.Reader // nil means os.Stdin
	MaxLineSize int
}

func buildInputPlugins(cfg InputPluginConfig) []InputSourcePlugin {
	conf := logsource.Config{MaxLineSize: cfg.MaxLineSize}
	if len(cfg.Files) == 0 {
		return []InputSourcePlugin{stdinInputPlugin{reader: cfg.Stdin, conf: conf}}
	}

	plugins := make([]InputSourcePlugin, 0, len(cfg.Files))
	stdinUsed := false
	for _, path := range cfg.Files {
		if path == "-" {
			// stdin can only be consumed once.
			if !stdinUsed {
				plugins = append(plugins, stdinInputPlugin{reader: cfg.Stdin, conf: conf})
				stdinUsed = true
			}
			continue
		}
		plugins = append(plugins, fileInputPlugin{path: path, conf: conf})
	}
	return plugins
}

// checkPlugins checks every plugin in order and returns the first error.
func checkPlugins(plugins []InputSourcePlugin) error {
	for _, plugin := range plugins {
		if err := plugin.Check(); err != nil {
			return err
		}
	}
	return nil
}

type fileInputPlugin struct {
	path string
	conf logsource.Config
}

func (p fileInputPlugin) Name() string { return p.path }

func (p fileInputPlugin) Check() error { return logsource.CheckFile(p.path) }

func (p fileInputPlugin) Build(ctx context.Context) (NamedLogSource, error) {
	src, err := logsource.NewFileSource(ctx, p.path, p.conf)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type stdinInputPlugin struct {
	reader io.Reader
	conf   logsource.Config
}

func (p stdinInputPlugin) Name() string { return logsource.StdinName }

func (p stdinInputPlugin) Check() error { return nil }

func (p stdinInputPlugin) Build(ctx context.Context) (NamedLogSource, error) {
	if p.reader == nil {
		return logsource.NewStdinSource(ctx, p.conf), nil
	}
	return logsource.NewReaderSource(ctx, logsource.StdinName, p.reader, p.conf), nil
}
