// Package host defines the projection capability a renderer supplies to
// the numeric core, plus a flat equirectangular implementation used by
// the terminal view. Any 2-D or 3-D map host can satisfy Projector.
package host

// Projector converts between geographic coordinates and screen pixels.
// Both conversions may fail for points the host cannot place; failures
// are reported through the ok result, never panics.
type Projector interface {
	Project(lon, lat float64) (x, y float64, ok bool)
	Unproject(x, y float64) (lon, lat float64, ok bool)
	IsVisible(lon, lat float64) bool
}

// FlatMap is an equirectangular projector over a fixed pixel surface.
type FlatMap struct {
	width, height          int
	xmin, xmax, ymin, ymax float64
}

func NewFlatMap(width, height int, xmin, xmax, ymin, ymax float64) *FlatMap {
	return &FlatMap{
		width: width, height: height,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
	}
}

// Resize updates the pixel surface. It is idempotent and touches nothing
// but the stored dimensions: neither field nor particle state is reset.
func (m *FlatMap) Resize(width, height int) {
	m.width, m.height = width, height
}

func (m *FlatMap) Size() (width, height int) { return m.width, m.height }

func (m *FlatMap) Project(lon, lat float64) (x, y float64, ok bool) {
	if m.width <= 0 || m.height <= 0 || m.xmax == m.xmin || m.ymax == m.ymin {
		return 0, 0, false
	}
	if lon < m.xmin || lon > m.xmax || !between(lat, m.ymin, m.ymax) {
		return 0, 0, false
	}
	x = (lon - m.xmin) / (m.xmax - m.xmin) * float64(m.width-1)
	y = (m.ymax - lat) / (m.ymax - m.ymin) * float64(m.height-1)
	return x, y, true
}

func (m *FlatMap) Unproject(x, y float64) (lon, lat float64, ok bool) {
	if m.width <= 1 || m.height <= 1 {
		return 0, 0, false
	}
	if x < 0 || y < 0 || x > float64(m.width-1) || y > float64(m.height-1) {
		return 0, 0, false
	}
	lon = m.xmin + x/float64(m.width-1)*(m.xmax-m.xmin)
	lat = m.ymax - y/float64(m.height-1)*(m.ymax-m.ymin)
	return lon, lat, true
}

// IsVisible reports whether the coordinate is on the mapped surface. A
// flat map has no occlusion, so this reduces to a bounds check.
func (m *FlatMap) IsVisible(lon, lat float64) bool {
	_, _, ok := m.Project(lon, lat)
	return ok
}

func between(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}
