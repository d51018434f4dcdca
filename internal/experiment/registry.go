package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/integrators"
	"github.com/san-kum/bouncesim/internal/metrics"
	"github.com/san-kum/bouncesim/internal/physics"
)

// ContainmentSlack is how far past a wall a body center may go before the
// containment metric counts a violation.
const ContainmentSlack = 0.5

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(contact *physics.Contact) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(contact),
		metrics.NewEnergyLoss(contact),
		metrics.NewBounces(contact),
		metrics.NewPenetration(contact),
		metrics.NewContainment(contact.Params().Box, ContainmentSlack),
		metrics.NewContactEffort(),
	}
}
