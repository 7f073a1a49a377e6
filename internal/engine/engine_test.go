package engine_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/windtrail/internal/engine"
	"github.com/san-kum/windtrail/internal/field"
)

// stubFlow is a uniform flow with rectangular coverage and a fixed seed
// point, keeping every transition of the particle state machine
// deterministic.
type stubFlow struct {
	u, v       float64
	xmax       float64
	seedX      float64
	seedY      float64
	seedCalls  int
	interpFail bool
}

func (s *stubFlow) inside(x, y float64) bool { return x >= 0 && x < s.xmax }

func (s *stubFlow) InterpolatedAt(x, y float64) (field.Vector, bool) {
	if s.interpFail || !s.inside(x, y) {
		return field.Vector{}, false
	}
	return field.NewVector(s.u, s.v), true
}

func (s *stubFlow) HasValueAt(x, y float64) bool { return s.inside(x, y) }

func (s *stubFlow) SeedRandom(rng *rand.Rand, w, h int, un field.Unproject) (float64, float64) {
	s.seedCalls++
	return s.seedX, s.seedY
}

var _ = Describe("Engine", func() {
	newEngine := func(flow *stubFlow, maxAge, count int) *engine.Engine {
		e, err := engine.New(flow, engine.Options{
			VelocityScale: 1,
			MaxAge:        maxAge,
			ParticleCount: count,
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	Describe("construction", func() {
		It("rejects invalid options", func() {
			flow := &stubFlow{xmax: 100}
			_, err := engine.New(flow, engine.Options{VelocityScale: 0, MaxAge: 1, ParticleCount: 1})
			Expect(err).To(HaveOccurred())
			_, err = engine.New(flow, engine.Options{VelocityScale: 1, MaxAge: 0, ParticleCount: 1})
			Expect(err).To(HaveOccurred())
			_, err = engine.New(flow, engine.Options{VelocityScale: 1, MaxAge: 1, ParticleCount: 0})
			Expect(err).To(HaveOccurred())
			_, err = engine.New(nil, engine.Options{VelocityScale: 1, MaxAge: 1, ParticleCount: 1})
			Expect(err).To(HaveOccurred())
		})

		It("seeds the whole pool", func() {
			flow := &stubFlow{xmax: 100, seedX: 5, seedY: 5}
			e := newEngine(flow, 10, 32)
			Expect(flow.seedCalls).To(Equal(32))
			for _, p := range e.Particles() {
				Expect(p.X).To(Equal(5.0))
			}
		})
	})

	Describe("advection", func() {
		It("stages targets without moving until Commit", func() {
			flow := &stubFlow{u: 2, v: 3, xmax: 100, seedX: 10, seedY: 10}
			e := newEngine(flow, 10, 4)

			segments := e.Step()
			Expect(segments).To(HaveLen(4))
			for _, s := range segments {
				Expect(s.X2 - s.X1).To(BeNumerically("~", 2, 1e-12))
				Expect(s.Y2 - s.Y1).To(BeNumerically("~", 3, 1e-12))
				Expect(s.Mag).To(BeNumerically("~", field.NewVector(2, 3).Magnitude, 1e-12))
			}
			// Source positions are untouched until the draw commits.
			for _, p := range e.Particles() {
				Expect(p.X).To(Equal(10.0))
			}

			e.Commit()
			for _, p := range e.Particles() {
				Expect(p.X).To(Equal(12.0))
				Expect(p.Y).To(Equal(13.0))
				Expect(p.HasTarget).To(BeFalse())
			}
		})

		It("respects the velocity scale", func() {
			flow := &stubFlow{u: 4, v: 0, xmax: 100, seedX: 1, seedY: 1}
			e, err := engine.New(flow, engine.Options{
				VelocityScale: 0.25, MaxAge: 10, ParticleCount: 1,
			})
			Expect(err).NotTo(HaveOccurred())

			segments := e.Step()
			Expect(segments).To(HaveLen(1))
			Expect(segments[0].X2 - segments[0].X1).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Describe("aging and recycling", func() {
		It("recycles an aged-out particle and draws nothing that tick", func() {
			// MaxAge 1 pins the staggered initial age to 0, so the
			// whole lifecycle is deterministic.
			flow := &stubFlow{u: 0.1, xmax: 100, seedX: 50, seedY: 50}
			e := newEngine(flow, 1, 1)

			Expect(e.Step()).To(HaveLen(1)) // age 0 -> 1
			e.Commit()
			Expect(e.Step()).To(HaveLen(1)) // age 1 -> 2
			e.Commit()

			seedsBefore := flow.seedCalls
			Expect(e.Step()).To(BeEmpty()) // age 2 > 1: recycle, no segment
			Expect(flow.seedCalls).To(Equal(seedsBefore + 1))

			p := e.Particles()[0]
			Expect(p.X).To(Equal(50.0))
			Expect(p.Age).To(Equal(1)) // reset to 0, then the tick's increment
		})

		It("draws again on the tick after the recycle", func() {
			flow := &stubFlow{u: 0.1, xmax: 100, seedX: 50, seedY: 50}
			e := newEngine(flow, 1, 1)
			e.Step()
			e.Commit()
			e.Step()
			e.Commit()
			Expect(e.Step()).To(BeEmpty())
			Expect(e.Step()).To(HaveLen(1))
		})

		It("forces a pending recycle when the sample is empty", func() {
			flow := &stubFlow{u: 1, xmax: 100, seedX: 50, seedY: 50, interpFail: true}
			e := newEngine(flow, 5, 1)

			Expect(e.Step()).To(BeEmpty())
			p := e.Particles()[0]
			Expect(p.X).To(Equal(50.0)) // no advection on an empty sample
			Expect(p.Age).To(Equal(6))  // forced to MaxAge, then incremented

			seedsBefore := flow.seedCalls
			Expect(e.Step()).To(BeEmpty()) // recycled now
			Expect(flow.seedCalls).To(Equal(seedsBefore + 1))
		})
	})

	Describe("leaving coverage", func() {
		It("keeps moving an escaped particle but stops drawing it", func() {
			// Coverage ends at x=10; the first advection step exits it.
			flow := &stubFlow{u: 1, xmax: 10, seedX: 9.5, seedY: 0}
			e := newEngine(flow, 1, 1)

			Expect(e.Step()).To(BeEmpty())
			p := e.Particles()[0]
			Expect(p.X).To(BeNumerically("~", 10.5, 1e-12)) // moved despite not drawing
			Expect(p.HasTarget).To(BeFalse())

			// The recycle is deferred by exactly one tick.
			seedsBefore := flow.seedCalls
			Expect(e.Step()).To(BeEmpty())
			Expect(flow.seedCalls).To(Equal(seedsBefore + 1))
			Expect(e.Particles()[0].X).To(Equal(9.5))
		})
	})

	Describe("observers", func() {
		It("reports per-tick statistics", func() {
			flow := &stubFlow{u: 1, xmax: 100, seedX: 50, seedY: 50}
			e := newEngine(flow, 10, 8)

			var got []engine.TickStats
			e.AddObserver(observerFunc(func(s engine.TickStats) { got = append(got, s) }))

			e.Step()
			Expect(got).To(HaveLen(1))
			Expect(got[0].Tick).To(Equal(0))
			Expect(got[0].Visible).To(Equal(8))
			Expect(got[0].Recycled).To(BeZero())
		})
	})

	Describe("reset", func() {
		It("reseeds the pool and restarts the tick counter", func() {
			flow := &stubFlow{u: 1, xmax: 100, seedX: 50, seedY: 50}
			e := newEngine(flow, 10, 4)
			e.Step()
			e.Commit()
			Expect(e.Tick()).To(Equal(1))

			e.Reset()
			Expect(e.Tick()).To(BeZero())
			for _, p := range e.Particles() {
				Expect(p.X).To(Equal(50.0))
				Expect(p.HasTarget).To(BeFalse())
			}
		})
	})
})

type observerFunc func(engine.TickStats)

func (f observerFunc) OnTick(s engine.TickStats) { f(s) }
