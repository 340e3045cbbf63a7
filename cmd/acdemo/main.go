// Command acdemo runs an interactive chart in the terminal.
//
// It wires a chart manager to the terminal host, registers a sample chart
// and hands control to the terminal event loop. Drag with the mouse to pan;
// press q to quit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/acharts/acharts/internal/chartman"
	"github.com/acharts/acharts/internal/host/termhost"
	"github.com/acharts/acharts/internal/observability"
	"github.com/acharts/acharts/internal/settings"
)

func main() {
	debugLog := flag.String("debug-log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "acdemo: %v\n", err)
		os.Exit(1)
	}
}

func run(debugLog string) error {
	logger, closeLog, err := newLogger(debugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	fs := afero.NewOsFs()
	prefs := settings.NewManager(fs, settings.DefaultPath(fs), logger)

	driver := termhost.NewDriver()
	driver.Doc().AddContainer(".demo", 100, 24)

	manager, err := chartman.New(chartman.Params{
		Env:    driver,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	handle := manager.Handle()
	defer handle.Release()

	id, err := manager.CreateChart(samplePayload(), configPayload(prefs))
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		if err := manager.DestroyChart(id); err != nil {
			logger.Error(fmt.Sprintf("acdemo: destroy chart: %v", err))
		}
	}()

	program := tea.NewProgram(
		termhost.NewModel(driver, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = program.Run()
	return err
}

// newLogger returns a file-backed debug logger, or a no-op logger when no
// path was given.
func newLogger(path string) (*observability.CoreLogger, func(), error) {
	if path == "" {
		return observability.NewNoOpLogger(), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	limiter, err := observability.NewNoiseLimiter(64, time.Minute)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
		&observability.CoreLoggerParams{NoiseLimiter: limiter},
	)
	return logger, func() { _ = f.Close() }, nil
}

// configPayload derives the raw chart config from persisted preferences.
func configPayload(prefs *settings.Manager) map[string]any {
	return map[string]any{
		"color_scheme":          prefs.ColorScheme(),
		"sort_data_sets_by":     prefs.SortDataSetsBy(),
		"animation_duration_ms": prefs.AnimationDuration().Milliseconds(),
	}
}

// samplePayload builds a two-series payload whose ranges differ enough for
// the log scale to win the creation-time heuristic.
func samplePayload() map[string]any {
	const points = 240

	p50 := make([]any, points)
	p99 := make([]any, points)
	for i := range points {
		x := float64(i) / 24
		p50[i] = 2 + math.Sin(x)
		p99[i] = 40 + 35*math.Sin(x/2)*math.Sin(x*3)
	}

	return map[string]any{
		"selector": ".demo",
		"title":    "request latency (ms)",
		"content": map[string]any{
			"data_sets": []any{
				map[string]any{"name": "p50", "values": p50},
				map[string]any{"name": "p99", "values": p99},
			},
		},
	}
}
