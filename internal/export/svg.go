// Package export renders sessions and recorded runs as standalone SVG.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/sim"
	"github.com/san-kum/headsim/internal/viz"
)

const background = "#0a0a0a"

var (
	pathCold = colorful.Color{R: 0.2, G: 0.4, B: 1}
	pathHot  = colorful.Color{R: 0.1, G: 1, B: 0.4}

	gestureColors = map[gesture.Gesture]string{
		gesture.Shake: "#ff5555",
		gesture.Nod:   "#ffd75f",
	}
)

// Point is one head orientation sample in degrees.
type Point struct {
	Yaw, Pitch float64
}

// CanvasToSVG draws every lit braille dot as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SceneToSVG renders the session's current view.
func SceneToSVG(s *sim.Session, cols, rows int, scale float64) string {
	c := viz.NewCanvas(cols, rows)
	viz.DrawScene(c, viz.NewViewport(c), s.Rig(), s.World(), s.Config().Selection.MaxOutlineWidth)
	return CanvasToSVG(c, scale, string(viz.CurrentTheme.Primary))
}

// FramesToPath extracts the head path from recorded frames.
func FramesToPath(frames []sim.Frame) []Point {
	points := make([]Point, len(frames))
	for i, f := range frames {
		points[i] = Point{Yaw: f.Yaw, Pitch: f.Pitch}
	}
	return points
}

// PathToSVG plots the head path with yaw on x and pitch on y. Segments fade
// from cold to hot by selection progress when frames are given, and gesture
// events are marked where they fired.
func PathToSVG(frames []sim.Frame, events []sim.GestureEvent, width, height int) string {
	points := FramesToPath(frames)
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].Yaw, points[0].Yaw
	minY, maxY := points[0].Pitch, points[0].Pitch
	for _, p := range points {
		minX = min(minX, p.Yaw)
		maxX = max(maxX, p.Yaw)
		minY = min(minY, p.Pitch)
		maxY = max(maxY, p.Pitch)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(p Point) (float64, float64) {
		x := (p.Yaw - minX) / rangeX * float64(width)
		y := float64(height) - (p.Pitch-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	writeHeader(&sb, float64(width), float64(height))
	sb.WriteString("<g fill=\"none\" stroke-width=\"1.5\" stroke-linecap=\"round\">\n")

	for i := 1; i < len(points); i++ {
		x0, y0 := project(points[i-1])
		x1, y1 := project(points[i])
		color := pathCold.BlendRgb(pathHot, clamp01(frames[i].Progress)).Hex()
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\"/>\n",
			x0, y0, x1, y1, color)
	}
	sb.WriteString("</g>\n")

	for _, ev := range events {
		if ev.Step < 0 || ev.Step >= len(points) {
			continue
		}
		x, y := project(points[ev.Step])
		color, ok := gestureColors[ev.Gesture]
		if !ok {
			color = "#ffffff"
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"><title>%s %.2fs</title></circle>\n",
			x, y, color, ev.Gesture, ev.Time)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteFile writes svg to path, or to w when path is "-".
func WriteFile(path, svg string, w io.Writer) error {
	if path == "-" {
		_, err := io.WriteString(w, svg)
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
