// Package gen produces synthetic flow fields from Perlin noise, for
// demos and tests that should not depend on downloaded weather data.
package gen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/windtrail/internal/field"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinDepth = 3
)

// Options shapes the synthetic field. Zero values fall back to a global
// 1-degree grid with moderate speeds.
type Options struct {
	Cols, Rows int
	MaxSpeed   float64
	// NoiseScale stretches the noise domain; smaller values give larger
	// weather systems.
	NoiseScale float64
	// HoleFraction in [0, 1) masks roughly that share of cells as
	// missing, exercising empty-cell handling downstream.
	HoleFraction float64
	Seed         int64
}

func (o *Options) defaults() {
	if o.Cols <= 0 {
		o.Cols = 360
	}
	if o.Rows <= 0 {
		o.Rows = 180
	}
	if o.MaxSpeed <= 0 {
		o.MaxSpeed = 25
	}
	if o.NoiseScale <= 0 {
		o.NoiseScale = 0.02
	}
}

// Synthetic builds a global grid whose flow angle and strength both come
// from Perlin noise. Returned arrays are row-major, NaN where masked.
func Synthetic(opts Options) (field.GridDef, []float64, []float64) {
	opts.defaults()

	def := field.GridDef{
		XMin: 0, XMax: 360,
		YMin: -90, YMax: 90,
		Cols: opts.Cols, Rows: opts.Rows,
		DeltaX: 360 / float64(opts.Cols),
		DeltaY: 180 / float64(opts.Rows),
	}

	angle := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinDepth, opts.Seed)
	speed := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinDepth, opts.Seed+1)
	mask := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinDepth, opts.Seed+2)

	us := make([]float64, def.Cols*def.Rows)
	vs := make([]float64, def.Cols*def.Rows)
	for j := 0; j < def.Rows; j++ {
		for i := 0; i < def.Cols; i++ {
			nx := float64(i) * def.DeltaX * opts.NoiseScale
			ny := float64(j) * def.DeltaY * opts.NoiseScale
			idx := j*def.Cols + i

			if opts.HoleFraction > 0 {
				// Noise-driven masking keeps the holes spatially coherent,
				// like a pressure level missing over terrain.
				if (mask.Noise2D(nx, ny)+1)/2 < opts.HoleFraction {
					us[idx] = math.NaN()
					vs[idx] = math.NaN()
					continue
				}
			}

			theta := angle.Noise2D(nx, ny) * 2 * math.Pi
			m := (speed.Noise2D(nx+100, ny+100) + 1) / 2 * opts.MaxSpeed
			us[idx] = math.Cos(theta) * m
			vs[idx] = math.Sin(theta) * m
		}
	}
	return def, us, vs
}
