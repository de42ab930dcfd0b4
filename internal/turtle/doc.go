// Package turtle renders symbol sequences as line drawings.
//
// Each symbol is looked up in a Table of drawing rules and applied to a
// turtle that starts at the origin heading up (negative y, as in SVG).
// Unknown symbols do nothing, so a table need only cover the symbols that
// draw, turn, or branch.
//
// The package depends on symbol sequences only, never on the engine that
// produced them.
package turtle
