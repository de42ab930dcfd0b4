package turtle

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// unitsPerStep is the number of SVG user units per turtle unit. svgo takes
// integer coordinates, so drawing in hundredths keeps two decimals.
const unitsPerStep = 100

// Canvas sets the SVG output size and stroke.
type Canvas struct {
	Width     int
	Height    int
	LineWidth float64
}

// WriteSVG writes segments as an SVG document. The viewBox is fitted to the
// segment bounds padded by the line width, so the drawing fills the canvas
// whatever its scale.
func WriteSVG(w io.Writer, segs []Segment, c Canvas) error {
	b := Bounds(segs)
	pad := c.LineWidth

	// svgo does not report write errors; bufio keeps the first one.
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Startview(c.Width, c.Height,
		units(b.Min.X-pad), units(b.Min.Y-pad),
		units(b.Width()+2*pad), units(b.Height()+2*pad),
	)
	canvas.Gstyle(fmt.Sprintf("stroke:#505050;stroke-width:%d;stroke-linecap:round;fill:none", units(c.LineWidth)))
	for _, s := range segs {
		canvas.Line(units(s.From.X), units(s.From.Y), units(s.To.X), units(s.To.Y))
	}
	canvas.Gend()
	canvas.End()
	return bw.Flush()
}

func units(v float64) int {
	return int(math.Round(v * unitsPerStep))
}
