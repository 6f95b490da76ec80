package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tinytelemetry/logtally/internal/analyzer"
	"github.com/tinytelemetry/logtally/internal/logsource"
	"github.com/tinytelemetry/logtally/internal/render"
)

const firstLog = `10.0.0.1 - - [15/Jan/2024:12:05:00 +0000] "GET / HTTP/1.1" 200 512 "-" "curl/8.0"
10.0.0.2 - - [15/Jan/2024:12:47:00 +0000] "GET /a HTTP/1.1" 404 - "-" "curl/8.0"
not an access log line
10.0.0.1 - - [15/Jan/2024:13:10:00 +0000] "POST /b HTTP/1.1" 201 12 "-" "curl/8.0"
`

const secondLog = `10.0.0.3 - - [15/Jan/2024:14:00:00 +0000] "GET / HTTP/1.1" 200 1 "-" "curl/8.0"
10.0.0.2 - - [15/Jan/2024:11:59:59 +0000] "GET / HTTP/1.1" 200 1 "-" "curl/8.0"
10.0.0.3 - - [15/Jan/2024:13:30:00 +0000] "GET / HTTP/1.1" 200 1 "-" "curl/8.0"
`

// firstLogText is the text report for firstLog.
var firstLogText = strings.Join([]string{
	"Requests per hour:",
	"[DateTime]: [Requests]",
	"2024-01-15 12:00:00: 2",
	"2024-01-15 13:00:00: 1",
	"",
	"Requests per IP address:",
	"[IP Address]: [Requests]",
	"10.0.0.1: 2",
	"10.0.0.2: 1",
	"",
}, "\n")

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(files ...string) appConfig {
	return appConfig{
		Format:      render.FormatText,
		LogFormat:   "combined",
		MaxLineSize: defaultMaxLineSize,
		Workers:     defaultWorkers,
		Files:       files,
	}
}

func TestRun_TextFromStdin(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), testConfig(), strings.NewReader(firstLog), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := firstLogText
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty without --verbose", stderr.String())
	}
}

func TestRun_OversizedLineIsSkipped(t *testing.T) {
	t.Parallel()

	input := strings.Replace(firstLog, "not an access log line", strings.Repeat("x", 500), 1)
	cfg := testConfig()
	cfg.MaxLineSize = 200

	p, err := newPipeline(cfg, strings.NewReader(input))
	if err != nil {
		t.Fatalf("newPipeline: %v", err)
	}
	res, err := p.ingest(context.Background())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Stats.Skipped != 1 || res.Stats.Parsed != 3 {
		t.Errorf("Stats = %+v, want 3 parsed and 1 skipped", res.Stats)
	}

	out, err := p.render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(firstLogText, string(out)); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MultipleFilesJSONWithRange(t *testing.T) {
	t.Parallel()

	cfg := testConfig(writeLog(t, "a.log", firstLog), writeLog(t, "b.log", secondLog))
	cfg.Format = render.FormatJSON
	cfg.TimeRange = "2024-01-15T12:00:00Z/2024-01-15T14:00:00Z"
	cfg.Hosts = 2

	var stdout bytes.Buffer
	if err := run(context.Background(), cfg, nil, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `{"request_per_hour":{"2024-01-15T12:00:00Z":2,"2024-01-15T13:00:00Z":2},` +
		`"request_per_host":{"10.0.0.1":2,"10.0.0.2":1}}` + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %s\nwant     %s", stdout.String(), want)
	}

	var doc map[string]map[string]int
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRun_ConcurrencyMatchesSequential(t *testing.T) {
	t.Parallel()

	files := []string{
		writeLog(t, "a.log", firstLog),
		writeLog(t, "b.log", secondLog),
		writeLog(t, "c.log", firstLog),
	}

	outputs := make([]string, 0, 2)
	for _, workers := range []int{1, 3} {
		workers := workers
		cfg := testConfig(files...)
		cfg.Workers = workers
		var stdout bytes.Buffer
		if err := run(context.Background(), cfg, nil, &stdout, &bytes.Buffer{}); err != nil {
			t.Fatalf("run(workers=%d): %v", workers, err)
		}
		outputs = append(outputs, stdout.String())
	}
	if diff := cmp.Diff(outputs[0], outputs[1]); diff != "" {
		t.Errorf("output differs between 1 and 3 workers (-seq +par):\n%s", diff)
	}
}

// trackingPlugin records how many of its sources are open at once.
type trackingPlugin struct {
	name    string
	content string
	open    *atomic.Int32
	peak    *atomic.Int32
}

func (p trackingPlugin) Name() string { return p.name }
func (p trackingPlugin) Check() error { return nil }

func (p trackingPlugin) Build(ctx context.Context) (NamedLogSource, error) {
	n := p.open.Add(1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	return &trackedSource{
		LogSource: logsource.NewReaderSource(ctx, p.name, strings.NewReader(p.content)),
		open:      p.open,
	}, nil
}

type trackedSource struct {
	logsource.LogSource
	open *atomic.Int32
	once sync.Once
}

func (s *trackedSource) Stop() {
	s.LogSource.Stop()
	s.once.Do(func() { s.open.Add(-1) })
}

func TestIngest_WorkersBoundOpenSources(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 3} {
		workers := workers
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Workers = workers
			p, err := newPipeline(cfg, nil)
			if err != nil {
				t.Fatalf("newPipeline: %v", err)
			}

			var open, peak atomic.Int32
			p.plugins = nil
			for i := 0; i < 8; i++ {
				p.plugins = append(p.plugins, trackingPlugin{
					name:    fmt.Sprintf("src-%d", i),
					content: firstLog,
					open:    &open,
					peak:    &peak,
				})
			}

			res, err := p.ingest(context.Background())
			if err != nil {
				t.Fatalf("ingest: %v", err)
			}
			if got := peak.Load(); got > int32(workers) {
				t.Errorf("peak open sources = %d, want <= %d", got, workers)
			}
			if got := open.Load(); got != 0 {
				t.Errorf("%d sources left open", got)
			}
			if got := res.Counters.Hosts.CountOf("10.0.0.1"); got != 16 {
				t.Errorf("CountOf(10.0.0.1) = %d, want 16", got)
			}
		})
	}
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Format = render.FormatJSON
	var stdout bytes.Buffer
	if err := run(context.Background(), cfg, strings.NewReader(""), &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := stdout.String(), `{"request_per_hour":{},"request_per_host":{}}`+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRun_InvalidPeriodFailsBeforeIngestion(t *testing.T) {
	t.Parallel()

	cfg := testConfig(filepath.Join(t.TempDir(), "never-opened.log"))
	cfg.TimeRange = "foo/bar"

	var stdout bytes.Buffer
	err := run(context.Background(), cfg, nil, &stdout, &bytes.Buffer{})
	if !errors.Is(err, analyzer.ErrInvalidPeriodSyntax) {
		t.Fatalf("err = %v, want ErrInvalidPeriodSyntax", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*appConfig)
		target error
	}{
		{"unknown output format", func(c *appConfig) { c.Format = "xml" }, render.ErrUnknownFormat},
		{"unknown log format", func(c *appConfig) { c.LogFormat = "w3c" }, nil},
		{"missing file", func(c *appConfig) { c.Files = []string{"/nonexistent/access.log"} }, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			var stdout bytes.Buffer
			err := run(context.Background(), cfg, strings.NewReader(firstLog), &stdout, &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing on error", stdout.String())
			}
		})
	}
}

func TestRun_VerboseSummary(t *testing.T) {
	// Mutates the global logger.
	cleanup := configureRuntimeLogger(true, &bytes.Buffer{})
	defer cleanup()

	cfg := testConfig()
	cfg.Verbose = true
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), cfg, strings.NewReader(firstLog), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	summary := stderr.String()
	for _, want := range []string{"Lines", "Skipped", "Hosts", "unbounded", "stdin", "combined", "%h %l %u %t", "2 x hour"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(stdout.String(), "Skipped") {
		t.Error("summary leaked into stdout")
	}
}

func TestRealMain_ExitCodes(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"success", []string{"--format", "json"}, firstLog, 0, `"request_per_host":{"10.0.0.1":2,"10.0.0.2":1}`, ""},
		{"hosts limit", []string{"--hosts", "1"}, firstLog, 0, "10.0.0.1: 2\n", ""},
		{"bad flag", []string{"--nope"}, "", 2, "", "unknown flag"},
		{"bad period", []string{"--time-range", "foo"}, firstLog, 1, "", "invalid period syntax"},
		{"bad format", []string{"--format", "xml"}, firstLog, 1, "", "unknown output format"},
		{"help", []string{"--help"}, "", 0, "", "Usage: logtally"},
		{"version", []string{"--version"}, "", 0, "Version:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := realMain(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want substring %q", stdout.String(), tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want substring %q", stderr.String(), tt.wantErr)
			}
		})
	}
}
