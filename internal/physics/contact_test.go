package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/integrators"
	"github.com/san-kum/bouncesim/internal/physics"
)

const (
	mass   = 1.23
	radius = 0.16
)

func ball(r, v r3.Vec) dynamo.Body {
	return dynamo.Body{Mass: mass, Radius: radius, R: r, V: v}
}

func evaluate(c *physics.Contact, b dynamo.Body) r3.Vec {
	bodies := []dynamo.Body{b}
	c.Apply(bodies)
	return bodies[0].F
}

var _ = Describe("Contact", func() {
	var (
		params  physics.Params
		contact *physics.Contact
	)

	BeforeEach(func() {
		params = physics.DefaultParams()
		contact = physics.NewContact(params)
	})

	Describe("free flight", func() {
		It("exerts no force inside the box without gravity", func() {
			f := evaluate(contact, ball(r3.Vec{X: 1, Z: 5}, r3.Vec{X: 0.3, Z: -2}))
			Expect(f).To(Equal(r3.Vec{}))
		})

		It("applies only gravity inside the box", func() {
			params.Gravity = physics.StandardGravity
			f := evaluate(physics.NewContact(params), ball(r3.Vec{X: 1, Z: 5}, r3.Vec{}))
			Expect(f.X).To(BeZero())
			Expect(f.Z).To(BeNumerically("~", -mass*physics.StandardGravity, 1e-12))
		})

		It("discards the previous force", func() {
			bodies := []dynamo.Body{ball(r3.Vec{X: 1, Z: 5}, r3.Vec{})}
			bodies[0].F = r3.Vec{X: 42, Y: -7, Z: 3}
			contact.Apply(bodies)
			Expect(bodies[0].F).To(Equal(r3.Vec{}))
		})
	})

	DescribeTable("penalty forces",
		func(r, v r3.Vec, wantX, wantZ float64) {
			f := evaluate(contact, ball(r, v))
			Expect(f.X).To(BeNumerically("~", wantX, 1e-9))
			Expect(f.Y).To(BeZero())
			Expect(f.Z).To(BeNumerically("~", wantZ, 1e-9))
		},
		Entry("floor, at rest", r3.Vec{X: 1, Z: 0.06}, r3.Vec{},
			0.0, physics.DefaultStiffness*0.1),
		Entry("floor, moving down", r3.Vec{X: 1, Z: 0.06}, r3.Vec{Z: -2},
			0.0, physics.DefaultStiffness*0.1+physics.DefaultDamping*mass*2),
		Entry("ceiling", r3.Vec{X: 1, Z: physics.DefaultZMax - radius + 0.05}, r3.Vec{Z: 1},
			0.0, -physics.DefaultStiffness*0.05-physics.DefaultDamping*mass*1),
		Entry("right wall", r3.Vec{X: physics.DefaultXMax - radius + 0.02, Z: 5}, r3.Vec{X: 0.5},
			-physics.DefaultStiffness*0.02-physics.DefaultDamping*mass*0.5, 0.0),
		Entry("left wall", r3.Vec{X: physics.DefaultXMin + radius - 0.02, Z: 5}, r3.Vec{X: -0.5},
			physics.DefaultStiffness*0.02+physics.DefaultDamping*mass*0.5, 0.0),
		Entry("just touching the floor", r3.Vec{X: 1, Z: radius}, r3.Vec{Z: -1},
			0.0, 0.0),
	)

	It("treats the left and right walls as mirror images", func() {
		for _, depth := range []float64{0.001, 0.01, 0.05, 0.1} {
			for _, speed := range []float64{0, 0.3, 1.5} {
				right := evaluate(contact, ball(r3.Vec{X: params.Box.XMax - radius + depth, Z: 5}, r3.Vec{X: speed}))
				left := evaluate(contact, ball(r3.Vec{X: params.Box.XMin + radius - depth, Z: 5}, r3.Vec{X: -speed}))

				Expect(right.X).To(BeNumerically("<=", 0))
				Expect(left.X).To(BeNumerically(">=", 0))
				Expect(left.X).To(BeNumerically("~", -right.X, 1e-9))
			}
		}
	})

	It("is a pure function of position and velocity", func() {
		bodies := []dynamo.Body{
			ball(r3.Vec{X: params.Box.XMax - 0.1, Z: 0.1}, r3.Vec{X: 0.7, Z: -1.1}),
			ball(r3.Vec{X: 1, Z: 3}, r3.Vec{Y: 1}),
		}
		contact.Apply(bodies)
		first := dynamo.CloneBodies(bodies)
		contact.Apply(bodies)
		Expect(bodies).To(Equal(first))
	})

	It("does not couple bodies", func() {
		a := ball(r3.Vec{X: 1, Z: 0.1}, r3.Vec{Z: -1})
		b := ball(r3.Vec{X: 1, Z: 0.1}, r3.Vec{Z: -1})
		alone := evaluate(contact, a)

		pair := []dynamo.Body{a, b}
		contact.Apply(pair)
		Expect(pair[0].F).To(Equal(alone))
		Expect(pair[1].F).To(Equal(alone))
	})

	Describe("Overlaps", func() {
		It("reports nothing inside the box", func() {
			Expect(contact.Overlaps(ball(r3.Vec{X: 1, Z: 5}, r3.Vec{}))).To(BeEmpty())
		})

		It("reports a corner as two contacts", func() {
			o := contact.Overlaps(ball(r3.Vec{X: params.Box.XMin + 0.1, Z: 0.1}, r3.Vec{}))
			Expect(o).To(HaveLen(2))
			Expect(o[0].Wall).To(Equal(physics.Floor))
			Expect(o[0].Depth).To(BeNumerically("~", 0.06, 1e-12))
			Expect(o[1].Wall).To(Equal(physics.Left))
			Expect(o[1].Depth).To(BeNumerically("~", 0.06, 1e-12))
		})
	})

	Describe("Energy", func() {
		It("counts kinetic, gravitational and spring energy", func() {
			params.Gravity = physics.StandardGravity
			c := physics.NewContact(params)
			b := ball(r3.Vec{X: 1, Z: 0.06}, r3.Vec{X: 1, Z: -2})

			want := 0.5*mass*5 + mass*physics.StandardGravity*0.06 + 0.5*physics.DefaultStiffness*0.1*0.1
			Expect(c.Energy(b)).To(BeNumerically("~", want, 1e-9))
		})
	})

	Describe("integrated motion", func() {
		simulate := func(p physics.Params, b dynamo.Body, steps int, visit func(dynamo.Body)) dynamo.Body {
			c := physics.NewContact(p)
			s := dynamo.New(c, integrators.NewLeapfrog())
			Expect(s.Initialize([]dynamo.Body{b}, 0.01)).To(Succeed())
			for i := 0; i < steps; i++ {
				Expect(s.Step()).To(Succeed())
				if visit != nil {
					visit(s.Bodies()[0])
				}
			}
			return s.Bodies()[0]
		}

		It("rebounds from the floor without diverging", func() {
			params.Gravity = physics.StandardGravity
			c := physics.NewContact(params)
			start := ball(r3.Vec{X: 1, Z: 2}, r3.Vec{})

			lowest := math.Inf(1)
			bounced := false
			final := simulate(params, start, 1000, func(b dynamo.Body) {
				Expect(b.IsValid()).To(BeTrue())
				lowest = math.Min(lowest, b.R.Z)
				if b.R.Z < radius && b.V.Z > 0 {
					bounced = true
				}
			})

			Expect(bounced).To(BeTrue())
			Expect(lowest).To(BeNumerically(">", -1))
			Expect(c.Energy(final)).To(BeNumerically("<", c.Energy(start)))
		})

		It("stays inside the walls over a default-length run", func() {
			eps := 0.1
			simulate(params, ball(r3.Vec{Z: 7.86}, r3.Vec{X: 0.87, Z: 1.32}), 1000, func(b dynamo.Body) {
				Expect(b.R.X).To(BeNumerically(">=", params.Box.XMin-radius-eps))
				Expect(b.R.X).To(BeNumerically("<=", params.Box.XMax+radius+eps))
				Expect(b.R.Z).To(BeNumerically(">=", -eps))
				Expect(b.R.Z).To(BeNumerically("<=", params.Box.ZMax+radius+eps))
			})
		})
	})
})

var _ = Describe("Params", func() {
	DescribeTable("Validate",
		func(mutate func(*physics.Params), ok bool) {
			p := physics.DefaultParams()
			mutate(&p)
			err := p.Validate()
			if ok {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		},
		Entry("defaults", func(p *physics.Params) {}, true),
		Entry("negative stiffness", func(p *physics.Params) { p.Stiffness = -1 }, false),
		Entry("negative damping", func(p *physics.Params) { p.Damping = -0.1 }, false),
		Entry("inverted walls", func(p *physics.Params) { p.Box.XMin = 5 }, false),
		Entry("ceiling below floor", func(p *physics.Params) { p.Box.ZMax = -1 }, false),
		Entry("nan gravity", func(p *physics.Params) { p.Gravity = math.NaN() }, false),
	)

	It("reports the explicit stability limit", func() {
		p := physics.DefaultParams()
		Expect(p.StableDt(mass)).To(BeNumerically("~", 2/math.Sqrt(physics.DefaultStiffness/mass), 1e-12))
		Expect(p.StableDt(mass)).To(BeNumerically(">", 0.01))
	})
})
