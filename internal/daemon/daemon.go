// Package daemon wraps a sweep (internal/run.SeriesRunner) as an
// installable OS service, for unattended campaigns that should survive
// logout and restart with the machine.
package daemon

import (
	"context"
	"fmt"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

const (
	serviceName        = "accelctl-sweep"
	serviceDisplayName = "Accelerometer Sweep Daemon"
	serviceDescription = "Runs a configured accelerometer recording sweep in the background."
)

// SweepFunc runs one whole sweep and returns when it's done or ctx is
// canceled. The service wrapper logs a returned error; the service
// process keeps running until it is stopped, and the sweep is not rerun.
type SweepFunc func(ctx context.Context) error

// program adapts a SweepFunc to kardianos/service's Interface.
type program struct {
	sweep  SweepFunc
	log    *logrus.Entry
	cancel context.CancelFunc
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go monitorRuntime(ctx, p.log)
	go func() {
		if err := p.sweep(ctx); err != nil {
			p.log.WithError(err).Error("sweep exited with an error")
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

// New builds the underlying service.Service for sweep, ready for Run or
// one of the lifecycle actions (Install, Start, Stop, Uninstall).
func New(sweep SweepFunc, log *logrus.Entry) (service.Service, error) {
	cfg := &service.Config{
		Name:        serviceName,
		DisplayName: serviceDisplayName,
		Description: serviceDescription,
	}
	svc, err := service.New(&program{sweep: sweep, log: log}, cfg)
	if err != nil {
		return nil, fmt.Errorf("daemon: new service: %w", err)
	}
	return svc, nil
}

// Control performs one lifecycle action ("install", "uninstall",
// "start", "stop", "restart") against an already-installed service.
func Control(svc service.Service, action string) error {
	if err := service.Control(svc, action); err != nil {
		return fmt.Errorf("daemon: %s: %w", action, err)
	}
	return nil
}

// Run starts svc under the service manager (foreground when run
// interactively, as the managed service process otherwise) and blocks
// until it's told to stop.
func Run(svc service.Service) error {
	if err := svc.Run(); err != nil {
		return fmt.Errorf("daemon: run: %w", err)
	}
	return nil
}
