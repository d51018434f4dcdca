package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

type Experiment struct {
	cfg       *config.Config
	contact   *physics.Contact
	simulator *dynamo.Simulator
	logger    *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Setup validates the configuration and builds an initialized simulator:
// bodies placed, t=0 forces evaluated, integrator primed.
func (e *Experiment) Setup(registry *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	integ, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	params := e.cfg.Params()
	bodies, err := e.cfg.InitialBodies()
	if err != nil {
		return err
	}

	for i, b := range bodies {
		if limit := params.StableDt(b.Mass); e.cfg.Dt >= limit {
			e.logger.Warn("time step exceeds contact stability limit",
				"body", i, "dt", e.cfg.Dt, "limit", limit)
		}
	}

	e.contact = physics.NewContact(params)
	e.simulator = dynamo.New(e.contact, integ)
	for _, m := range registry.DefaultMetrics(e.contact) {
		e.simulator.AddMetric(m)
	}

	if err := e.simulator.Initialize(bodies, e.cfg.Dt); err != nil {
		return err
	}

	e.logger.Debug("experiment ready",
		"integrator", e.cfg.Integrator, "bodies", len(bodies), "dt", e.cfg.Dt, "steps", e.cfg.Steps)
	return nil
}

func (e *Experiment) Run(ctx context.Context, observers ...dynamo.Observer) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	for _, o := range observers {
		e.simulator.AddObserver(o)
	}

	result, err := e.simulator.Run(ctx, e.cfg.SimConfig())
	if err != nil {
		return result, err
	}

	e.logger.Debug("experiment finished", "steps", result.StepsTaken, "metrics", result.Metrics)
	return result, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

func (e *Experiment) Contact() *physics.Contact {
	return e.contact
}
