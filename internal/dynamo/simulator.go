package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	forces     ForceField
	integrator Integrator
	metrics    []Metric
	observers  []Observer

	bodies      []Body
	dt          float64
	initialized bool
}

func New(forces ForceField, integrator Integrator) *Simulator {
	return &Simulator{
		forces:     forces,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Initialize takes ownership of a copy of bodies, evaluates the t=0 force
// and primes the integrator. It is the only way to arm the simulator.
func (s *Simulator) Initialize(bodies []Body, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, dt)
	}
	if len(bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidBody)
	}
	for i, b := range bodies {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}

	s.bodies = CloneBodies(bodies)
	s.dt = dt
	s.forces.Apply(s.bodies)
	s.integrator.Prime(s.bodies, dt)
	s.initialized = true
	return nil
}

// Bodies returns a copy of the current body state.
func (s *Simulator) Bodies() []Body {
	return CloneBodies(s.bodies)
}

func (s *Simulator) Dt() float64 { return s.dt }

// Step advances all bodies by dt and recomputes forces for the new state.
func (s *Simulator) Step() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.integrator.Step(s.bodies, s.dt)
	s.forces.Apply(s.bodies)
	return nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Dt != s.dt {
		// Priming used s.dt; a different step size would break the stagger.
		return nil, fmt.Errorf("%w: run dt %g differs from initialized dt %g", ErrParameterBounds, cfg.Dt, s.dt)
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Steps),
		Samples: make([]Sample, 0, cfg.Steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.Bodies()
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt

		for _, obs := range s.observers {
			if err := obs.OnStep(i, t, s.bodies); err != nil {
				result.Final = s.Bodies()
				return result, &SimulationError{Step: i, Time: t, Body: cfg.Track, Wrapped: err}
			}
		}
		for _, m := range s.metrics {
			m.Observe(s.bodies, t)
		}

		tracked := s.bodies[cfg.Track]
		result.Times = append(result.Times, t)
		result.Samples = append(result.Samples, Sample{R: tracked.R, V: tracked.V})

		if err := s.Step(); err != nil {
			return result, err
		}
		result.StepsTaken++

		if cfg.ValidateState {
			for j, b := range s.bodies {
				if !b.IsValid() {
					result.Final = s.Bodies()
					return result, &SimulationError{Step: i, Time: t, Body: j, Wrapped: ErrInvalidState}
				}
			}
		}
	}

	result.Final = s.Bodies()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrParameterBounds, cfg.Steps)
	}
	if cfg.Track < 0 || cfg.Track >= len(s.bodies) {
		return fmt.Errorf("%w: track index %d out of range [0, %d)", ErrParameterBounds, cfg.Track, len(s.bodies))
	}
	return nil
}
