// Command storemon monitors energy-storage devices on the terminal.
//
// Each configured device is backed by a simulated battery and sampled by the
// device kind's sampler. The monitor renders one template per device (tile
// mode), one aggregated record (summary mode), or a single device.
//
// Usage:
//
//	storemon [flags]
//
// Flags:
//
//	-config string     Configuration file path (.yaml, .yml or .toml)
//	-mode string       Display mode: tile, summary, single
//	-index int         Device index in single mode
//	-depth int         Color depth override: 1, 4, 8, 24
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-log-file string   Write logs to this file instead of stderr
//	-trace string      Append sample trace events (CBOR) to this file
//
// Examples:
//
//	# Monitor the devices listed in a config file
//	storemon -config /etc/storemon/storemon.yaml
//
//	# Show only the aggregated record, logging to a file
//	storemon -config storemon.toml -mode summary -log-file storemon.log
//
//	# Capture a sample trace for storemon-log
//	storemon -config storemon.yaml -trace storemon.trace -log-level debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/storemon/storemon-go/pkg/config"
	"github.com/storemon/storemon-go/pkg/discovery"
	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/monitor"
	"github.com/storemon/storemon-go/pkg/screen"
)

// Flags holds the command line settings.
type Flags struct {
	ConfigFile string
	Mode       string
	Index      int
	Depth      int
	LogLevel   string
	LogFile    string
	TraceFile  string
}

func main() {
	var flags Flags
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (.yaml, .yml or .toml)")
	flag.StringVar(&flags.Mode, "mode", "", "Display mode: tile, summary, single")
	flag.IntVar(&flags.Index, "index", -1, "Device index in single mode")
	flag.IntVar(&flags.Depth, "depth", 0, "Color depth override: 1, 4, 8, 24")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	flag.StringVar(&flags.TraceFile, "trace", "", "Append sample trace events (CBOR) to this file")
	flag.Parse()

	if err := run(flags); err != nil {
		if errors.Is(err, discovery.ErrNoDevices) {
			fmt.Fprintln(os.Stderr, "storemon: no devices")
			return
		}
		fmt.Fprintf(os.Stderr, "storemon: %v\n", err)
		os.Exit(1)
	}
}

func run(flags Flags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(flags.LogLevel, flags.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var trace log.Logger = log.NewSlogAdapter(logger)
	if flags.TraceFile != "" {
		file, err := log.NewFileLogger(flags.TraceFile)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer file.Close()
		trace = log.NewMultiLogger(file, trace)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	found, err := discovery.Discover(ctx, discovery.NewStatic(cfg.Entries()))
	if err != nil {
		return err
	}

	term := screen.NewTerminal(os.Stdout)
	defer term.Close()
	if cfg.Display.Depth != 0 {
		term.SetDepth(cfg.Display.Depth)
	}

	a, err := newApp(cfg, found, term, logger, trace)
	if err != nil {
		return err
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Debug("terminal ready", "depth", term.Depth())
	return a.run(ctx)
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(flags Flags) (config.Config, error) {
	cfg := config.Default()
	if flags.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(flags.ConfigFile); err != nil {
			return cfg, err
		}
	}

	if flags.Mode != "" {
		mode, err := monitor.ParseMode(flags.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Display.Mode = mode
	}
	if flags.Index >= 0 {
		cfg.Display.Index = flags.Index
	}
	if flags.Depth != 0 {
		cfg.Display.Depth = flags.Depth
	}
	return cfg, cfg.Validate()
}

// newLogger builds the operational logger. The terminal belongs to the
// display, so a log file is preferable to stderr for anything but short runs.
func newLogger(level, path string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	noColor := false
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
		noColor = true
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
