package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/storemon/storemon-go/pkg/config"
	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/discovery"
	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/monitor"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/sensor/sim"
	"github.com/storemon/storemon-go/pkg/template"
)

// app is a wired monitor: simulated batteries, their samplers and the
// render loop.
type app struct {
	cfg       config.Config
	batteries []*sim.Battery
	samplers  []device.Sampler
	monitor   *monitor.Monitor
}

// newApp creates a battery and sampler for every found device and a monitor
// drawing them to surface. Found devices are matched to cfg.Devices by
// position; the static enumerator preserves entry order.
func newApp(cfg config.Config, found []discovery.Found, surface screen.Surface, logger *slog.Logger, trace log.Logger) (*app, error) {
	if len(found) != len(cfg.Devices) {
		return nil, fmt.Errorf("found %d devices for %d configured", len(found), len(cfg.Devices))
	}

	opts, err := cfg.DeviceOptions(logger, trace)
	if err != nil {
		return nil, err
	}
	env, err := cfg.TemplateEnv()
	if err != nil {
		return nil, err
	}
	tpl, err := template.Compile(cfg.Template, env)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	for i, f := range found {
		b := sim.NewBattery(cfg.Devices[i].Profile())
		name := device.ResolveName(f.Address, f.Kind, cfg.Names)
		s, err := device.New(f.Kind, name, sim.Sensor(b, f.Kind), opts)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", f.Address, err)
		}
		logger.Debug("device ready", "address", f.Address, "kind", f.Kind, "name", name)
		a.batteries = append(a.batteries, b)
		a.samplers = append(a.samplers, s)
	}

	a.monitor, err = monitor.New(monitor.Options{
		Samplers:        a.samplers,
		Engine:          template.NewEngine(tpl, surface.Depth()),
		Surface:         surface,
		Mode:            cfg.Display.Mode,
		Index:           cfg.Display.Index,
		RefreshInterval: cfg.RefreshInterval.Std(),
		RateConstant:    cfg.RateConstant,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// run drives the simulation, the samplers and the monitor until ctx is
// done, then waits for every goroutine to stop.
func (a *app) run(ctx context.Context) error {
	var wg sync.WaitGroup
	interval := a.cfg.PollInterval.Std()
	for _, b := range a.batteries {
		b := b
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Run(ctx, interval, a.cfg.RateConstant)
		}()
	}
	waitSamplers := monitor.StartSamplers(ctx, a.samplers)

	err := a.monitor.Run(ctx)
	waitSamplers()
	wg.Wait()
	return err
}
