package engine

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/windtrail/internal/field"
)

// Flow is the read-only view of a vector field the engine advects
// particles through. *field.Field satisfies it.
type Flow interface {
	InterpolatedAt(lon, lat float64) (field.Vector, bool)
	HasValueAt(lon, lat float64) bool
	SeedRandom(rng *rand.Rand, width, height int, unproject field.Unproject) (x, y float64)
}

// Particle is one tracer in the pool. XT/YT and Mag are only meaningful
// while HasTarget is set, i.e. between Step and Commit of a single tick.
type Particle struct {
	X, Y      float64
	XT, YT    float64
	Age       int
	Mag       float64
	HasTarget bool
}

// Segment is one renderable streak: source point, staged target point,
// and the magnitude sampled at the source.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
	Mag    float64
}

// TickStats summarizes one simulation tick.
type TickStats struct {
	Tick     int
	Visible  int
	Recycled int
	Escaped  int
}

// Observer receives per-tick statistics.
type Observer interface {
	OnTick(s TickStats)
}

// Options configures an engine. SeedWidth/SeedHeight and Unproject are
// passed through to Flow.SeedRandom so seeding can happen in screen
// space; zero sizes fall back to the grid shape.
type Options struct {
	VelocityScale float64
	MaxAge        int
	ParticleCount int
	SeedWidth     int
	SeedHeight    int
	Unproject     field.Unproject
	Seed          int64
}

// Engine owns a fixed pool of particles and advances them through the
// flow one tick at a time. Each tick is two explicit phases: Step
// simulates and stages draw segments, Commit moves the particles that
// were drawn. Nothing else may mutate particle state.
type Engine struct {
	flow      Flow
	opts      Options
	rng       *rand.Rand
	pool      []Particle
	segments  []Segment
	observers []Observer
	tick      int
}

func New(flow Flow, opts Options) (*Engine, error) {
	if flow == nil {
		return nil, fmt.Errorf("engine: flow must not be nil")
	}
	if opts.VelocityScale <= 0 {
		return nil, fmt.Errorf("engine: velocity scale must be positive, got %g", opts.VelocityScale)
	}
	if opts.MaxAge < 1 {
		return nil, fmt.Errorf("engine: max age must be >= 1, got %d", opts.MaxAge)
	}
	if opts.ParticleCount < 1 {
		return nil, fmt.Errorf("engine: particle count must be >= 1, got %d", opts.ParticleCount)
	}

	e := &Engine{
		flow:     flow,
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		pool:     make([]Particle, opts.ParticleCount),
		segments: make([]Segment, 0, opts.ParticleCount),
	}
	for i := range e.pool {
		e.reseed(&e.pool[i])
		// Stagger initial ages so the pool does not recycle in lockstep.
		e.pool[i].Age = e.rng.Intn(opts.MaxAge)
	}
	return e, nil
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// SetSeedSurface updates the random-seeding domain, typically after the
// host surface resizes. Existing particle state is untouched.
func (e *Engine) SetSeedSurface(width, height int) {
	e.opts.SeedWidth, e.opts.SeedHeight = width, height
}

// Particles exposes the pool for inspection. Callers must not mutate it.
func (e *Engine) Particles() []Particle { return e.pool }

// Tick returns the number of completed Step calls.
func (e *Engine) Tick() int { return e.tick }

// Reset reseeds every particle and restarts the tick counter.
func (e *Engine) Reset() {
	for i := range e.pool {
		p := &e.pool[i]
		e.reseed(p)
		p.Age = e.rng.Intn(e.opts.MaxAge)
		p.HasTarget = false
	}
	e.tick = 0
}

// Step runs one simulation tick over the whole pool and returns the
// staged draw segments, in pool order. The returned slice is reused by
// the next Step.
//
// Per-particle transitions:
//   - age past MaxAge: reseed, age restarts at 0; the particle sits this
//     tick out and draws nothing.
//   - empty sample under the particle: force age to MaxAge and skip
//     advection, scheduling a recycle on the next tick.
//   - target outside coverage: the particle still moves there but is
//     marked invisible (age forced to MaxAge); it keeps wandering and is
//     recycled one tick later, never immediately.
//   - target inside coverage: stage the target and emit a segment; the
//     position is only committed after the draw.
//
// Age increments unconditionally at the end of every tick.
func (e *Engine) Step() []Segment {
	e.segments = e.segments[:0]
	stats := TickStats{Tick: e.tick}

	for i := range e.pool {
		p := &e.pool[i]
		p.HasTarget = false

		if p.Age > e.opts.MaxAge {
			e.reseed(p)
			p.Age = 0
			stats.Recycled++
		} else if v, ok := e.flow.InterpolatedAt(p.X, p.Y); !ok {
			p.Age = e.opts.MaxAge
			stats.Escaped++
		} else {
			xt := p.X + v.U*e.opts.VelocityScale
			yt := p.Y + v.V*e.opts.VelocityScale
			if e.flow.HasValueAt(xt, yt) {
				p.XT, p.YT = xt, yt
				p.Mag = v.Magnitude
				p.HasTarget = true
				e.segments = append(e.segments, Segment{
					X1: p.X, Y1: p.Y, X2: xt, Y2: yt, Mag: v.Magnitude,
				})
				stats.Visible++
			} else {
				p.X, p.Y = xt, yt
				p.Age = e.opts.MaxAge
				stats.Escaped++
			}
		}

		p.Age++
	}

	e.tick++
	for _, o := range e.observers {
		o.OnTick(stats)
	}
	return e.segments
}

// Commit moves every particle with a staged target to it. The draw step
// calls this after rendering, so a particle that produced no segment this
// tick never silently teleports.
func (e *Engine) Commit() {
	for i := range e.pool {
		p := &e.pool[i]
		if p.HasTarget {
			p.X, p.Y = p.XT, p.YT
			p.HasTarget = false
		}
	}
}

func (e *Engine) reseed(p *Particle) {
	p.X, p.Y = e.flow.SeedRandom(e.rng, e.opts.SeedWidth, e.opts.SeedHeight, e.opts.Unproject)
}
