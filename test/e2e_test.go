package test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hwmon-tools/logviz/pkg/chart"
	"github.com/hwmon-tools/logviz/pkg/config"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
	"github.com/hwmon-tools/logviz/pkg/output"
	"github.com/hwmon-tools/logviz/pkg/render"
)

var (
	testRoot string
	rootOnce sync.Once
)

// chdir changes to the test directory so fixture paths resolve.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		testRoot = filepath.Dir(filename)
	})
	if err := os.Chdir(testRoot); err != nil {
		t.Fatalf("Failed to chdir to test root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

// TestE2E_DefaultGrouping runs the full pipeline on a realistic sensor
// export with only the built-in rules: parse, group, build, render.
func TestE2E_DefaultGrouping(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench.csv")
	requireFile(t, logFile)

	ctx := context.Background()
	cfg := config.DefaultConfig()

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := len(result.Store.Channels); got != 6 {
		t.Fatalf("Expected 6 channels, got %d", got)
	}
	if got := result.Store.Rows(); got != 5 {
		t.Fatalf("Expected 5 rows, got %d", got)
	}
	if !result.Warnings.Empty() {
		t.Errorf("Unexpected warnings: %s", result.Warnings.Summary())
	}

	// Date and Time columns combine into full timestamps.
	want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if !result.Store.Times[0].Equal(want) {
		t.Errorf("Times[0] = %v, want %v", result.Store.Times[0], want)
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		t.Fatalf("Matcher failed: %v", err)
	}
	asg := matcher.Assign(result.Store.Names())

	// Group order follows the header position of each group's first member.
	wantGroups := []string{"Temperatures", "Fans", "Voltages", "Core Clocks", "Usage"}
	if len(asg.Groups) != len(wantGroups) {
		t.Fatalf("Expected %d groups, got %d", len(wantGroups), len(asg.Groups))
	}
	for i, g := range asg.Groups {
		if g.Name != wantGroups[i] {
			t.Errorf("Group[%d] = %s, want %s", i, g.Name, wantGroups[i])
		}
	}

	temps := asg.Groups[0]
	if len(temps.Channels) != 2 {
		t.Errorf("Temperatures members = %v, want CPU Package and GPU Temperature", temps.Channels)
	}

	fig, err := chart.Build(result.Store, asg, chart.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fig.Title != "Sensor log (2024-01-15)" {
		t.Errorf("Title = %q", fig.Title)
	}

	var buf bytes.Buffer
	if err := render.NewHTMLRenderer().Render(ctx, fig, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()
	for _, check := range []string{"echarts", "CPU Package [°C]", "Fans [RPM]", "Core Clocks [MHz]"} {
		if !strings.Contains(html, check) {
			t.Errorf("Rendered HTML missing %q", check)
		}
	}

	t.Logf("Rendered %d panels from %d channels", len(fig.Panels), len(result.Store.Channels))
}

// TestE2E_UserConfig layers a user config over the defaults: an exclusive
// rule pulls CPU Package out of Temperatures, and a hide pattern starts
// the GPU trace deselected.
func TestE2E_UserConfig(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench.csv")
	configFile := filepath.Join("testdata", "configs", "bench.yaml")
	requireFile(t, logFile)
	requireFile(t, configFile)

	ctx := context.Background()
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		t.Fatalf("Matcher failed: %v", err)
	}
	asg := matcher.Assign(result.Store.Names())

	// The exclusive user rule claims CPU Package outright.
	got := asg.GroupsOf("CPU Package [°C]")
	if len(got) != 1 || got[0] != "CPU Thermals" {
		t.Errorf("CPU Package groups = %v, want [CPU Thermals]", got)
	}
	for _, g := range asg.Groups {
		if g.Name == "Temperatures" {
			for _, ch := range g.Channels {
				if ch == "CPU Package [°C]" {
					t.Error("CPU Package should not remain in Temperatures")
				}
			}
		}
	}

	fig, err := chart.Build(result.Store, asg, chart.Options{
		Title:        cfg.Chart.Title,
		Hidden:       cfg.Hidden,
		HiddenGroups: cfg.HiddenGroups(),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fig.Title != "Bench run" {
		t.Errorf("Title = %q, want Bench run", fig.Title)
	}

	var buf bytes.Buffer
	if err := render.NewHTMLRenderer().Render(ctx, fig, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "CPU Thermals") {
		t.Error("Expected CPU Thermals panel in HTML")
	}
	if !strings.Contains(html, `"GPU Temperature [°C]":false`) {
		t.Error("Expected GPU trace to start deselected")
	}
}

// TestE2E_TextReport verifies the inspect text output on real data.
func TestE2E_TextReport(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench.csv")
	requireFile(t, logFile)

	ctx := context.Background()
	cfg := config.DefaultConfig()

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	matcher, _ := cfg.Matcher()
	asg := matcher.Assign(result.Store.Names())

	report := output.NewReport(result, asg, logFile)
	formatter := output.NewTextFormatter(output.FormatOptions{})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	checks := []string{
		"[Temperatures]",
		"[Fans]",
		"[Voltages]",
		"No warnings",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q", check)
		}
	}
}

// TestE2E_JSONReport verifies the inspect JSON output round-trips.
func TestE2E_JSONReport(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench.csv")
	requireFile(t, logFile)

	ctx := context.Background()
	cfg := config.DefaultConfig()

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	matcher, _ := cfg.Matcher()
	asg := matcher.Assign(result.Store.Names())

	report := output.NewReport(result, asg, logFile)
	formatter := output.NewJSONFormatter(output.FormatOptions{})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var parsed output.Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if parsed.Summary.Channels != 6 {
		t.Errorf("Channels = %d, want 6", parsed.Summary.Channels)
	}
	if parsed.Summary.Rows != 5 {
		t.Errorf("Rows = %d, want 5", parsed.Summary.Rows)
	}
	if parsed.Summary.Groups != 5 {
		t.Errorf("Groups = %d, want 5", parsed.Summary.Groups)
	}
	if parsed.Warnings.BadCells != 0 {
		t.Errorf("BadCells = %d, want 0", parsed.Warnings.BadCells)
	}
}

// TestE2E_SemicolonExport covers the European export flavor: semicolon
// separator with decimal-comma numbers.
func TestE2E_SemicolonExport(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench_semicolon.csv")
	configFile := filepath.Join("testdata", "configs", "bench_semicolon.yaml")
	requireFile(t, logFile)
	requireFile(t, configFile)

	ctx := context.Background()
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := len(result.Store.Channels); got != 2 {
		t.Fatalf("Expected 2 channels, got %d", got)
	}

	values, ok := result.Store.ValuesByName("CPU Package [°C]")
	if !ok {
		t.Fatal("CPU Package channel missing")
	}
	if values[0] != 45.5 {
		t.Errorf("values[0] = %v, want 45.5 (decimal comma)", values[0])
	}
}

// TestE2E_NoisyLog exercises the warning paths end to end: a bad cell
// and an out-of-order timestamp must be reported but never abort, and
// the rendered chart keeps the gap as a null point.
func TestE2E_NoisyLog(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "noisy.csv")

	content := `Time,CPU Package [°C],CPU Fan [RPM]
10:00:00,45.5,1200
10:00:01,garbage,1210
09:59:58,47.5,1250
10:00:03,48.0,1280
`
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	ctx := context.Background()
	result, err := hwlog.ParseFile(ctx, logFile, hwlog.Options{Encoding: "utf-8"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Warnings.Cells) != 1 {
		t.Errorf("Cell warnings = %d, want 1", len(result.Warnings.Cells))
	}
	if len(result.Warnings.Ordering) != 1 {
		t.Errorf("Ordering warnings = %d, want 1", len(result.Warnings.Ordering))
	}
	if result.Store.Rows() != 4 {
		t.Errorf("Rows = %d, want 4 (rows with warnings are kept)", result.Store.Rows())
	}

	cfg := config.DefaultConfig()
	matcher, _ := cfg.Matcher()
	asg := matcher.Assign(result.Store.Names())

	report := output.NewReport(result, asg, logFile)
	if !report.HasWarnings() {
		t.Error("Expected report to carry warnings")
	}

	fig, err := chart.Build(result.Store, asg, chart.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := render.NewHTMLRenderer().Render(ctx, fig, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "null") {
		t.Error("Expected null gap for the bad cell in rendered HTML")
	}
}

// TestE2E_RenderedArtifact writes an actual HTML file the way the render
// command does and sanity-checks the artifact.
func TestE2E_RenderedArtifact(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "bench.csv")
	requireFile(t, logFile)

	ctx := context.Background()
	cfg := config.DefaultConfig()

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	matcher, _ := cfg.Matcher()
	asg := matcher.Assign(result.Store.Names())

	fig, err := chart.Build(result.Store, asg, chart.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "bench.html")
	f, err := os.Create(outPath)
	if err != nil {
		t.Fatalf("Failed to create artifact: %v", err)
	}
	if err := render.NewHTMLRenderer().Render(ctx, fig, f); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("Artifact missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Artifact is empty")
	}
}
