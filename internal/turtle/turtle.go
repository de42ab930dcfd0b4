package turtle

import (
	"iter"
	"math"

	"github.com/roach88/lsys/internal/ir"
)

// Rule is the drawing action for one symbol.
type Rule struct {
	Length    float64 // Line length before scaling; no line when <= 0
	Turn      float64 // Heading change in radians, positive is clockwise
	Push      bool    // Save position and heading before moving
	Pop       bool    // Restore the last saved position and heading before moving
	EndBranch bool    // Draw the line but keep position and heading
}

// Table maps symbols to drawing rules.
type Table map[string]Rule

// RulesFromSpec converts draw rules, whose turns are in degrees.
// A later rule for the same symbol replaces an earlier one.
func RulesFromSpec(rules []ir.DrawRule) Table {
	t := make(Table, len(rules))
	for _, r := range rules {
		t[r.Symbol] = Rule{
			Length:    r.Length,
			Turn:      r.Turn * math.Pi / 180,
			Push:      r.Push,
			Pop:       r.Pop,
			EndBranch: r.EndBranch,
		}
	}
	return t
}

// Point is a position in drawing coordinates.
type Point struct {
	X, Y float64
}

// Segment is one drawn line.
type Segment struct {
	From, To Point
}

type state struct {
	pos   Point
	angle float64
}

// Interpret runs the turtle over symbols and returns the drawn segments in
// drawing order. scale multiplies every rule length.
//
// For each symbol: push saves the current state, pop restores the most
// recent saved state (ignored when nothing is saved), then the heading is
// turned and the turtle moves by the scaled length, drawing a segment when
// the length is positive. An end-branch rule draws without moving.
func Interpret(symbols iter.Seq[string], table Table, scale float64) []Segment {
	var (
		cur   state
		stack []state
		segs  []Segment
	)

	for sym := range symbols {
		rule, ok := table[sym]
		if !ok {
			continue
		}

		if rule.Push {
			stack = append(stack, cur)
		}
		if rule.Pop && len(stack) > 0 {
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}

		angle := cur.angle + rule.Turn
		length := rule.Length * scale
		next := Point{
			X: cur.pos.X + length*math.Sin(angle),
			Y: cur.pos.Y - length*math.Cos(angle),
		}

		if length > 0 {
			segs = append(segs, Segment{From: cur.pos, To: next})
		}

		if !rule.EndBranch {
			cur = state{pos: next, angle: angle}
		}
	}
	return segs
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Bounds returns the smallest box containing every segment endpoint.
// The zero Rect is returned for no segments.
func Bounds(segs []Segment) Rect {
	if len(segs) == 0 {
		return Rect{}
	}
	r := Rect{Min: segs[0].From, Max: segs[0].From}
	for _, s := range segs {
		for _, p := range [2]Point{s.From, s.To} {
			r.Min.X = min(r.Min.X, p.X)
			r.Min.Y = min(r.Min.Y, p.Y)
			r.Max.X = max(r.Max.X, p.X)
			r.Max.Y = max(r.Max.Y, p.Y)
		}
	}
	return r
}
