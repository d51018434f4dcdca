package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// constantForce pushes every body along +z with a fixed force.
type constantForce struct {
	fz    float64
	calls int
}

func (c *constantForce) Apply(bodies []Body) {
	c.calls++
	for i := range bodies {
		bodies[i].F = r3.Vec{Z: c.fz}
	}
}

type testIntegrator struct {
	primed int
}

func (ti *testIntegrator) Prime(bodies []Body, dt float64) { ti.primed++ }

func (ti *testIntegrator) Step(bodies []Body, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		b.V = r3.Add(b.V, r3.Scale(dt/b.Mass, b.F))
		b.R = r3.Add(b.R, r3.Scale(dt, b.V))
	}
}

func testBody(t *testing.T) Body {
	t.Helper()
	b, err := NewBody(1.0, 0.1, r3.Vec{Z: 1}, r3.Vec{X: 1})
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	return b
}

func TestNewBodyValidation(t *testing.T) {
	tests := []struct {
		name   string
		mass   float64
		radius float64
		r      r3.Vec
	}{
		{"zero mass", 0, 0.1, r3.Vec{}},
		{"negative mass", -1, 0.1, r3.Vec{}},
		{"zero radius", 1, 0, r3.Vec{}},
		{"negative radius", 1, -0.2, r3.Vec{}},
		{"nan mass", math.NaN(), 0.1, r3.Vec{}},
		{"inf position", 1, 0.1, r3.Vec{X: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBody(tt.mass, tt.radius, tt.r, r3.Vec{})
			if !errors.Is(err, ErrInvalidBody) {
				t.Errorf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}

func TestSimulatorRequiresInitialize(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})

	if err := s.Step(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized from Step, got %v", err)
	}
	if _, err := s.Run(context.Background(), DefaultConfig()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized from Run, got %v", err)
	}
}

func TestSimulatorInitializeOrder(t *testing.T) {
	forces := &constantForce{fz: 2}
	integ := &testIntegrator{}
	s := New(forces, integ)

	if err := s.Initialize([]Body{testBody(t)}, 0.01); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if forces.calls != 1 {
		t.Errorf("expected 1 force evaluation, got %d", forces.calls)
	}
	if integ.primed != 1 {
		t.Errorf("expected 1 prime, got %d", integ.primed)
	}
	if got := s.Bodies()[0].F.Z; got != 2 {
		t.Errorf("expected initial force 2, got %f", got)
	}
}

func TestSimulatorInitializeRejectsInvalid(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})

	if err := s.Initialize([]Body{{Mass: 0, Radius: 1}}, 0.01); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}
	if err := s.Initialize(nil, 0.01); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody for empty set, got %v", err)
	}
	if err := s.Initialize([]Body{testBody(t)}, 0); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSimulatorInitializeCopiesBodies(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	bodies := []Body{testBody(t)}

	if err := s.Initialize(bodies, 0.01); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := s.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if bodies[0].R.X != 0 {
		t.Errorf("caller slice mutated: x=%f", bodies[0].R.X)
	}
}

func TestSimulatorRun(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	var steps []int
	s.AddObserver(ObserverFunc(func(step int, tm float64, bodies []Body) error {
		steps = append(steps, step)
		return nil
	}))

	cfg := Config{Dt: 0.1, Steps: 10}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 10 {
		t.Errorf("expected 10 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps taken, got %d", result.StepsTaken)
	}
	if len(steps) != 10 || steps[0] != 0 || steps[9] != 9 {
		t.Errorf("unexpected observer steps: %v", steps)
	}

	if result.Samples[0].R.X != 0 {
		t.Errorf("first sample should be the initial state, got x=%f", result.Samples[0].R.X)
	}

	finalX := result.Final[0].R.X
	if math.Abs(finalX-1.0) > 1e-9 {
		t.Errorf("expected final x ~1.0, got %.12f", finalX)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Steps: 10}},
		{"negative dt", Config{Dt: -0.1, Steps: 10}},
		{"mismatched dt", Config{Dt: 0.2, Steps: 10}},
		{"zero steps", Config{Dt: 0.1, Steps: 0}},
		{"track out of range", Config{Dt: 0.1, Steps: 10, Track: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorDetectsDivergence(t *testing.T) {
	s := New(&constantForce{fz: math.Inf(1)}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	_, err := s.Run(context.Background(), Config{Dt: 0.1, Steps: 5, ValidateState: true})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.1, Steps: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                     { return "count" }
func (c *countMetric) Observe(bodies []Body, t float64) { c.count++ }
func (c *countMetric) Value() float64                   { return float64(c.count) }
func (c *countMetric) Reset()                           { c.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	metric := &countMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Steps: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 10 {
		t.Errorf("expected 10 observations, got %f", result.Metrics["count"])
	}
}

func TestSimulatorObserverError(t *testing.T) {
	s := New(&constantForce{}, &testIntegrator{})
	if err := s.Initialize([]Body{testBody(t)}, 0.1); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	boom := errors.New("disk full")
	s.AddObserver(ObserverFunc(func(step int, tm float64, bodies []Body) error {
		if step == 3 {
			return boom
		}
		return nil
	}))

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Steps: 10})
	if !errors.Is(err, boom) {
		t.Fatalf("expected observer error, got %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps before failure, got %d", result.StepsTaken)
	}
}
