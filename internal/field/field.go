package field

import (
	"fmt"
	"math"
	"math/rand"
)

// GridDef describes a structured lon/lat grid: bounds in degrees, cell
// counts, and cell sizes. DeltaY may be negative for south-up sources;
// YMin/YMax are then deliberately not re-sorted.
type GridDef struct {
	XMin, XMax float64
	YMin, YMax float64
	Cols, Rows int
	DeltaX     float64
	DeltaY     float64
}

func (d GridDef) validate() error {
	if d.Cols < 1 || d.Rows < 1 {
		return fmt.Errorf("%w: cols=%d rows=%d", ErrBadDefinition, d.Cols, d.Rows)
	}
	if d.DeltaX == 0 || d.DeltaY == 0 {
		return fmt.Errorf("%w: deltaX=%g deltaY=%g", ErrBadDefinition, d.DeltaX, d.DeltaY)
	}
	return nil
}

type cell struct {
	vec   Vector
	valid bool
}

// Unproject converts a pixel or index pair back to a geographic
// coordinate. It is host-supplied and may fail.
type Unproject func(px, py float64) (lon, lat float64, ok bool)

// Field owns a structured grid of flow vectors and answers containment,
// nearest and bilinear lookups. It is immutable after construction apart
// from Release.
type Field struct {
	def        GridDef
	grid       [][]cell // rows x cols, plus a duplicated column 0 when continuous
	continuous bool
	wrappedX   bool
	minMag     float64
	maxMag     float64
	warnings   []string
	released   bool
}

// New builds a field from grid metadata plus flat row-major u/v arrays of
// length cols*rows. A sample where either component is non-finite becomes
// an empty cell. A grid with no valid cell at all is a construction error.
func New(def GridDef, us, vs []float64) (*Field, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	want := def.Cols * def.Rows
	if len(us) != want || len(vs) != want {
		return nil, fmt.Errorf("%w: got %d u and %d v samples, want %d",
			ErrBadDefinition, len(us), len(vs), want)
	}

	f := &Field{
		def:        def,
		continuous: math.Floor(float64(def.Cols)*def.DeltaX) >= 360,
		wrappedX:   def.XMax > 180,
		minMag:     math.Inf(1),
		maxMag:     math.Inf(-1),
	}

	// Declared shape wins over the shape implied by bounds and deltas;
	// a mismatch is only worth a warning.
	if c := int(math.Ceil(floorMod(def.XMax-def.XMin, 360) / def.DeltaX)); c != 0 && c != def.Cols {
		f.warnings = append(f.warnings,
			fmt.Sprintf("declared cols=%d but bounds/deltaX imply %d", def.Cols, c))
	}
	if r := int(math.Ceil((def.YMax - def.YMin) / def.DeltaY)); r != def.Rows {
		f.warnings = append(f.warnings,
			fmt.Sprintf("declared rows=%d but bounds/deltaY imply %d", def.Rows, r))
	}

	valid := 0
	f.grid = make([][]cell, def.Rows)
	for j := 0; j < def.Rows; j++ {
		width := def.Cols
		if f.continuous {
			width++
		}
		row := make([]cell, width)
		for i := 0; i < def.Cols; i++ {
			u := us[j*def.Cols+i]
			v := vs[j*def.Cols+i]
			if !isFinite(u) || !isFinite(v) {
				continue
			}
			vec := NewVector(u, v)
			row[i] = cell{vec: vec, valid: true}
			valid++
			if vec.Magnitude < f.minMag {
				f.minMag = vec.Magnitude
			}
			if vec.Magnitude > f.maxMag {
				f.maxMag = vec.Magnitude
			}
		}
		if f.continuous {
			// Duplicate column 0 so seam interpolation never wraps an index.
			row[def.Cols] = row[0]
		}
		f.grid[j] = row
	}

	if valid == 0 {
		return nil, ErrEmptyGrid
	}
	return f, nil
}

// Def returns the grid metadata the field was built from.
func (f *Field) Def() GridDef { return f.def }

// Continuous reports whether the grid spans the full 360 degrees of
// longitude.
func (f *Field) Continuous() bool { return f.continuous }

// WrappedX reports whether source longitudes were expressed in [0, 360).
func (f *Field) WrappedX() bool { return f.wrappedX }

// Range returns the min and max magnitude over all valid cells.
func (f *Field) Range() (min, max float64) { return f.minMag, f.maxMag }

// Warnings returns non-fatal construction diagnostics.
func (f *Field) Warnings() []string { return f.warnings }

// Magnitudes returns the magnitude of every valid cell, row-major. The
// duplicated seam column of a continuous grid is not counted twice.
func (f *Field) Magnitudes() []float64 {
	mags := make([]float64, 0, f.def.Cols*f.def.Rows)
	for j := range f.grid {
		for i := 0; i < f.def.Cols; i++ {
			if f.grid[j][i].valid {
				mags = append(mags, f.grid[j][i].vec.Magnitude)
			}
		}
	}
	return mags
}

// Release discards the grid for teardown. Queries afterwards report no
// value.
func (f *Field) Release() {
	f.grid = nil
	f.released = true
}

// Bounds returns the effective lon/lat domain: for wrapped sources the
// longitudes are remapped out of [0, 360), and a flipped-Y source keeps
// its declared orientation.
func (f *Field) Bounds() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = f.wrappedLongitudes()
	ymin, ymax = f.def.YMin, f.def.YMax
	if f.def.DeltaY < 0 {
		ymin, ymax = ymax, ymin
	}
	return xmin, xmax, ymin, ymax
}

// wrappedLongitudes maps the declared longitude bounds into [-180, 180]
// space. A continuous wrapped grid covers that whole range; a partial
// wrapped grid keeps its span, shifted by -360.
func (f *Field) wrappedLongitudes() (lo, hi float64) {
	lo, hi = f.def.XMin, f.def.XMax
	if !f.wrappedX {
		return lo, hi
	}
	if f.continuous {
		return -180, 180
	}
	return lo - 360, hi - 360
}

// Contains reports whether the point lies inside the field's domain.
func (f *Field) Contains(lon, lat float64) bool {
	lo, hi := f.wrappedLongitudes()
	if lon < lo || lon > hi {
		return false
	}
	if f.def.DeltaY >= 0 {
		return lat >= f.def.YMin && lat <= f.def.YMax
	}
	return lat >= f.def.YMax && lat <= f.def.YMin
}

// DecimalIndexes maps a geographic coordinate to fractional grid indexes.
// It is the exact inverse of IndexToCoord: integer results land on cell
// centers. The longitude difference goes through a floored modulo so
// points west of XMin wrap instead of going negative.
func (f *Field) DecimalIndexes(lon, lat float64) (i, j float64) {
	i = floorMod(lon-f.def.XMin, 360)/f.def.DeltaX - 0.5
	j = (f.def.YMax-lat)/f.def.DeltaY - 0.5
	return i, j
}

// IndexToCoord returns the geographic coordinate of the center of cell
// (i, j), remapped to (-180, 180] when the source is wrapped.
func (f *Field) IndexToCoord(i, j int) (lon, lat float64) {
	lon = f.def.XMin + f.def.DeltaX/2 + float64(i)*f.def.DeltaX
	if f.wrappedX && lon > 180 {
		lon -= 360
	}
	lat = f.def.YMax - f.def.DeltaY/2 - float64(j)*f.def.DeltaY
	return lon, lat
}

// NearestAt returns the cell the point falls in, or no value when the
// point is outside the domain or the cell is empty.
func (f *Field) NearestAt(lon, lat float64) (Vector, bool) {
	if f.released || !f.Contains(lon, lat) {
		return Vector{}, false
	}
	di, dj := f.DecimalIndexes(lon, lat)
	i := clampIndex(int(math.Floor(di)), f.def.Cols)
	j := clampIndex(int(math.Floor(dj)), f.def.Rows)
	c := f.grid[j][i]
	return c.vec, c.valid
}

// HasValueAt reports whether a nearest-cell lookup at the point succeeds.
func (f *Field) HasValueAt(lon, lat float64) bool {
	_, ok := f.NearestAt(lon, lat)
	return ok
}

// InterpolatedAt returns the bilinear blend of the four cells surrounding
// the point. If the point is outside the domain, or any of the four
// corners is empty, there is no value: the field never interpolates
// partially. The blended magnitude is recomputed from the blended
// components rather than interpolated itself.
func (f *Field) InterpolatedAt(lon, lat float64) (Vector, bool) {
	if f.released || !f.Contains(lon, lat) {
		return Vector{}, false
	}
	di, dj := f.DecimalIndexes(lon, lat)

	fi := int(math.Floor(di))
	x := di - math.Floor(di)
	var ci int
	if f.continuous {
		// Row width is cols+1 with column 0 duplicated at the end, so
		// ci never needs an explicit wrap.
		fi = int(floorMod(float64(fi), float64(f.def.Cols)))
		ci = fi + 1
	} else {
		fi = clampIndex(fi, f.def.Cols)
		ci = clampIndex(fi+1, f.def.Cols)
	}

	fj := clampIndex(int(math.Floor(dj)), f.def.Rows)
	cj := clampIndex(fj+1, f.def.Rows)
	y := dj - math.Floor(dj)

	g00 := f.grid[fj][fi]
	g10 := f.grid[fj][ci]
	g01 := f.grid[cj][fi]
	g11 := f.grid[cj][ci]
	if !g00.valid || !g10.valid || !g01.valid || !g11.valid {
		return Vector{}, false
	}

	a := (1 - x) * (1 - y)
	b := x * (1 - y)
	c := (1 - x) * y
	d := x * y
	u := g00.vec.U*a + g10.vec.U*b + g01.vec.U*c + g11.vec.U*d
	v := g00.vec.V*a + g10.vec.V*b + g01.vec.V*c + g11.vec.V*d
	return NewVector(u, v), true
}

// SeedRandom picks a uniformly random integer position in index space
// (width/height default to the grid shape) and converts it to a
// geographic coordinate through the host's unproject callback. When the
// callback is absent or fails, the raw grid indexes are converted with
// IndexToCoord instead. The indirection exists because the visual seeding
// domain (screen pixels) and the grid's native domain are different
// spaces once a projection is in play.
func (f *Field) SeedRandom(rng *rand.Rand, width, height int, unproject Unproject) (x, y float64) {
	if width <= 0 {
		width = f.def.Cols
	}
	if height <= 0 {
		height = f.def.Rows
	}
	i := rng.Intn(width)
	j := rng.Intn(height)
	if unproject != nil {
		if lon, lat, ok := unproject(float64(i), float64(j)); ok {
			return lon, lat
		}
	}
	return f.IndexToCoord(i, j)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
