// Package export renders captured runs to standalone files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/windtrail/internal/palette"
	"github.com/san-kum/windtrail/internal/storage"
)

const backgroundFill = "#0a0a0a"

// SegmentsToSVG renders captured draw segments as an SVG image. The
// geographic bounding box of the segments is fit to the pixel surface
// with a little padding, and strokes are grouped by color index so each
// palette entry becomes one SVG group. Latitude grows upward, so y is
// flipped into SVG space.
func SegmentsToSVG(segments []storage.SegmentRecord, scale palette.Scale, width, height int) string {
	if len(segments) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := segments[0].X1, segments[0].X1
	minY, maxY := segments[0].Y1, segments[0].Y1
	grow := func(x, y float64) {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, s := range segments {
		grow(s.X1, s.Y1)
		grow(s.X2, s.Y2)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	byColor := make(map[int][]storage.SegmentRecord)
	maxIndex := 0
	for _, s := range segments {
		byColor[s.ColorIndex] = append(byColor[s.ColorIndex], s)
		if s.ColorIndex > maxIndex {
			maxIndex = s.ColorIndex
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, backgroundFill))

	for idx := 0; idx <= maxIndex; idx++ {
		group := byColor[idx]
		if len(group) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<g stroke=\"%s\" stroke-width=\"1\" stroke-linecap=\"round\">\n", strokeColor(scale, idx)))
		for _, s := range group {
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, px(s.X1), py(s.Y1), px(s.X2), py(s.Y2)))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func strokeColor(scale palette.Scale, idx int) string {
	if len(scale) == 0 {
		return "#ffffff"
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scale) {
		idx = len(scale) - 1
	}
	return scale[idx]
}
