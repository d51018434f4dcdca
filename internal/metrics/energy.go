package metrics

import (
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// Energy reports the mean total mechanical energy over the run.
type Energy struct {
	name        string
	field       dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(field dynamo.Hamiltonian) *Energy {
	return &Energy{
		name:  "energy",
		field: field,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []dynamo.Body, t float64) {
	e.totalEnergy += totalEnergy(e.field, bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the fraction of the initial energy gone by the last
// observation. Damped contacts make it positive; a negative value means the
// integrator is injecting energy.
type EnergyLoss struct {
	name          string
	field         dynamo.Hamiltonian
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyLoss(field dynamo.Hamiltonian) *EnergyLoss {
	return &EnergyLoss{
		name:  "energy_loss",
		field: field,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(bodies []dynamo.Body, t float64) {
	energy := totalEnergy(e.field, bodies)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.initialEnergy - e.currentEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}

func totalEnergy(field dynamo.Hamiltonian, bodies []dynamo.Body) float64 {
	sum := 0.0
	for _, b := range bodies {
		sum += field.Energy(b)
	}
	return sum
}
