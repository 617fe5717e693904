package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
	"github.com/san-kum/holesim/internal/viz"
)

type scene struct {
	width, height int
	scale         float64
	palette       viz.Palette
}

func newScene(width, height int, p viz.Palette) scene {
	return scene{
		width:   width,
		height:  height,
		scale:   math.Min(float64(width), float64(height)),
		palette: p,
	}
}

func (s scene) header(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, s.palette.Background.Hex()))
}

func (s scene) attractors(sb *strings.Builder, attractors []physics.Attractor) {
	reach := s.palette.Reach.Hex()
	horizon := s.palette.Horizon.Hex()
	for _, a := range attractors {
		cx, cy := a.Position.X*s.scale, a.Position.Y*s.scale
		sb.WriteString(fmt.Sprintf(`<circle class="reach" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-dasharray="4 4"/>
`, cx, cy, a.Reach*s.scale, reach))
		sb.WriteString(fmt.Sprintf(`<circle class="horizon" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, a.Radius*s.scale, horizon))
	}
}

func (s scene) balls(sb *strings.Builder, f sim.Frame) {
	for _, b := range f.Balls {
		r := math.Max(b.Radius*s.scale, 1)
		sb.WriteString(fmt.Sprintf(`<circle class="ball" data-id="%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, b.ID, b.Position.X*s.scale, b.Position.Y*s.scale, r, s.palette.Hex(b.Kind)))
	}
}

// FrameToSVG draws one frame on the unit plane scaled to the smaller of
// width and height. Reach outlines are dashed.
func FrameToSVG(f sim.Frame, attractors []physics.Attractor, p viz.Palette, width, height int) string {
	s := newScene(width, height, p)

	var sb strings.Builder
	s.header(&sb)
	s.attractors(&sb, attractors)
	s.balls(&sb, f)
	sb.WriteString("</svg>")
	return sb.String()
}

// TrailsToSVG draws the path of every ball across frames as a polyline,
// followed by the last frame on top.
func TrailsToSVG(frames []sim.Frame, attractors []physics.Attractor, p viz.Palette, width, height int) string {
	if len(frames) == 0 {
		return ""
	}
	s := newScene(width, height, p)

	type trail struct {
		kind   physics.Kind
		points []string
	}
	trails := make(map[int]*trail)
	for _, f := range frames {
		for _, b := range f.Balls {
			t, ok := trails[b.ID]
			if !ok {
				t = &trail{kind: b.Kind}
				trails[b.ID] = t
			}
			t.points = append(t.points, fmt.Sprintf("%.2f,%.2f", b.Position.X*s.scale, b.Position.Y*s.scale))
		}
	}

	ids := make([]int, 0, len(trails))
	for id := range trails {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sb strings.Builder
	s.header(&sb)
	s.attractors(&sb, attractors)
	for _, id := range ids {
		t := trails[id]
		if len(t.points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polyline class="trail" data-id="%d" fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" points="%s"/>
`, id, p.Hex(t.kind), strings.Join(t.points, " ")))
	}
	s.balls(&sb, frames[len(frames)-1])
	sb.WriteString("</svg>")
	return sb.String()
}
