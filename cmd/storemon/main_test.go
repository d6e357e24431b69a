package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storemon/storemon-go/pkg/config"
	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/discovery"
	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/monitor"
	"github.com/storemon/storemon-go/pkg/screen"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.PollInterval = config.Duration(10 * time.Millisecond)
	cfg.RefreshInterval = config.Duration(10 * time.Millisecond)
	cfg.Names = map[string]string{"abcdef": "Main Bank"}
	cfg.Devices = []config.Device{
		{Address: "abcdef123456", Kind: device.KindCounter, Capacity: 1000, Stored: 500, Input: 10, Output: 2},
		{Kind: device.KindStatusBuffer, Capacity: 2000, Stored: 100, Input: 5},
	}
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, cfg config.Config, surface screen.Surface) *app {
	t.Helper()
	found, err := discovery.Discover(context.Background(), discovery.NewStatic(cfg.Entries()))
	require.NoError(t, err)

	a, err := newApp(cfg, found, surface, discardLogger(), log.NoopLogger{})
	require.NoError(t, err)
	return a
}

func TestNewAppRendersDevices(t *testing.T) {
	mem := screen.NewMemory(120, 40, 24)
	a := newTestApp(t, testConfig(), mem)
	require.Len(t, a.samplers, 2)

	for i := 0; i < 3; i++ {
		for _, b := range a.batteries {
			b.Step(1)
		}
		for _, s := range a.samplers {
			_ = s.Tick()
		}
	}

	_, err := a.monitor.RenderTick()
	require.NoError(t, err)

	text := mem.Text()
	assert.Contains(t, text, "Main Bank")
	assert.Contains(t, text, device.KindStatusBuffer.Prefix()+"@")
}

func TestNewAppDeviceCountMismatch(t *testing.T) {
	cfg := testConfig()
	found := []discovery.Found{{Address: "only", Kind: device.KindCounter}}

	_, err := newApp(cfg, found, screen.NewMemory(80, 25, 24), discardLogger(), log.NoopLogger{})
	assert.Error(t, err)
}

func TestNewAppBadTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.Template = []string{"{@nosuchwidget}"}
	found, err := discovery.Discover(context.Background(), discovery.NewStatic(cfg.Entries()))
	require.NoError(t, err)

	_, err = newApp(cfg, found, screen.NewMemory(80, 25, 24), discardLogger(), log.NoopLogger{})
	assert.Error(t, err)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	mem := screen.NewMemory(120, 40, 24)
	a := newTestApp(t, testConfig(), mem)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.Greater(t, mem.Flushes(), 1)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(Flags{Mode: "summary", Index: -1, Depth: 8})
	require.NoError(t, err)
	assert.Equal(t, monitor.ModeSummary, cfg.Display.Mode)
	assert.Equal(t, 8, cfg.Display.Depth)
	assert.Equal(t, 0, cfg.Display.Index)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storemon.yaml")
	data := "display:\n  mode: single\n  index: 1\ndevices:\n  - kind: counter\n  - kind: totals\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := loadConfig(Flags{ConfigFile: path, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, monitor.ModeSingle, cfg.Display.Mode)
	assert.Equal(t, 0, cfg.Display.Index)
	assert.Len(t, cfg.Devices, 2)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(Flags{Mode: "wall", Index: -1})
	assert.ErrorIs(t, err, monitor.ErrInvalidMode)

	_, err = loadConfig(Flags{Index: -1, Depth: 3})
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = loadConfig(Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"), Index: -1})
	assert.Error(t, err)
}

func TestNoDevicesIsReported(t *testing.T) {
	_, err := discovery.Discover(context.Background(), discovery.NewStatic(config.Default().Entries()))
	assert.True(t, errors.Is(err, discovery.ErrNoDevices))
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "storemon.log")
	logger, closeLog, err := newLogger("debug", path)
	require.NoError(t, err)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("hello", "device", "Main Bank")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello"))
	assert.NotContains(t, string(data), "\x1b[", "log files are written without color")

	_, _, err = newLogger("loud", "")
	assert.Error(t, err)
}
