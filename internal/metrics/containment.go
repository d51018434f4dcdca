package metrics

import (
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

// Containment is the fraction of observations in which every body's center
// stays within the box grown by slack on each side.
type Containment struct {
	name       string
	box        physics.Box
	slack      float64
	violations int
	samples    int
}

func NewContainment(box physics.Box, slack float64) *Containment {
	return &Containment{
		name:  "containment",
		box:   box,
		slack: slack,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(bodies []dynamo.Body, t float64) {
	c.samples++
	for _, b := range bodies {
		if !c.inside(b) {
			c.violations++
			break
		}
	}
}

func (c *Containment) inside(b dynamo.Body) bool {
	return b.IsValid() &&
		b.R.X >= c.box.XMin-c.slack && b.R.X <= c.box.XMax+c.slack &&
		b.R.Z >= -c.slack && b.R.Z <= c.box.ZMax+c.slack
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
