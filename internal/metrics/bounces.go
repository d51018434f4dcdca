package metrics

import (
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
)

// Bounces counts contact onsets: observations where a body touches a wall
// it did not touch in the previous observation.
type Bounces struct {
	name    string
	contact *physics.Contact
	prev    []map[physics.Wall]bool
	count   int
}

func NewBounces(contact *physics.Contact) *Bounces {
	return &Bounces{
		name:    "bounces",
		contact: contact,
	}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(bodies []dynamo.Body, t float64) {
	if len(b.prev) != len(bodies) {
		b.prev = make([]map[physics.Wall]bool, len(bodies))
	}
	for i, body := range bodies {
		now := make(map[physics.Wall]bool)
		for _, o := range b.contact.Overlaps(body) {
			now[o.Wall] = true
			if b.prev[i] != nil && !b.prev[i][o.Wall] {
				b.count++
			}
		}
		b.prev[i] = now
	}
}

func (b *Bounces) Value() float64 { return float64(b.count) }

func (b *Bounces) Reset() {
	b.prev = nil
	b.count = 0
}

// Penetration is the deepest wall overlap seen.
type Penetration struct {
	name    string
	contact *physics.Contact
	max     float64
}

func NewPenetration(contact *physics.Contact) *Penetration {
	return &Penetration{
		name:    "max_penetration",
		contact: contact,
	}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(bodies []dynamo.Body, t float64) {
	for _, body := range bodies {
		for _, o := range p.contact.Overlaps(body) {
			p.max = math.Max(p.max, o.Depth)
		}
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }
