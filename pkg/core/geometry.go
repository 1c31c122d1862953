// Package core holds the domain types shared by the directory, the world and the adapters.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is a position on a container's grid.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Z int `json:"z" yaml:"z"`
}

// Less reports whether c comes before o in canonical order (Z, then X).
func (c Cell) Less(o Cell) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	return c.X < o.X
}

// Add returns c shifted by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Z: c.Z + d.Z}
}

// String renders the cell as "x,z", the form used for persisted keys.
func (c Cell) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Z)
}

// ParseCell parses the "x,z" form produced by Cell.String.
func ParseCell(s string) (Cell, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return Cell{}, fmt.Errorf("invalid cell %q: missing comma", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	z, err := strconv.Atoi(strings.TrimSpace(zs))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return Cell{X: x, Z: z}, nil
}

// CellRect is an inclusive rectangle of cells, used for view culling and relocation.
type CellRect struct {
	Min Cell `json:"min" yaml:"min"`
	Max Cell `json:"max" yaml:"max"`
}

// Contains reports whether c lies inside the rectangle.
func (r CellRect) Contains(c Cell) bool {
	return c.X >= r.Min.X && c.X <= r.Max.X && c.Z >= r.Min.Z && c.Z <= r.Max.Z
}

// Vec2 is a display nudge in world units.
type Vec2 struct {
	X float64 `json:"x" yaml:"x" validate:"gte=-3,lte=3"`
	Y float64 `json:"y" yaml:"y" validate:"gte=-3,lte=3"`
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Color is an RGBA color with components in [0,1].
type Color struct {
	R float64 `json:"r" yaml:"r" validate:"gte=0,lte=1"`
	G float64 `json:"g" yaml:"g" validate:"gte=0,lte=1"`
	B float64 `json:"b" yaml:"b" validate:"gte=0,lte=1"`
	A float64 `json:"a" yaml:"a" validate:"gte=0,lte=1"`
}

// RGB builds an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns the same color with alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Similar compares the RGB channels within a small tolerance, ignoring alpha.
func (c Color) Similar(o Color) bool {
	const eps = 0.01
	return abs(c.R-o.R) < eps && abs(c.G-o.G) < eps && abs(c.B-o.B) < eps
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
