package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// ContactEffort is the mean net force magnitude per body over the run.
type ContactEffort struct {
	name    string
	sum     float64
	samples int
}

func NewContactEffort() *ContactEffort {
	return &ContactEffort{
		name: "contact_effort",
	}
}

func (c *ContactEffort) Name() string {
	return c.name
}

func (c *ContactEffort) Observe(bodies []dynamo.Body, t float64) {
	for _, b := range bodies {
		c.sum += r3.Norm(b.F)
		c.samples++
	}
}

func (c *ContactEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ContactEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
