package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/roomtag/pkg/core"
)

func parseCellArgs(xs, zs string) (core.Cell, error) {
	return core.ParseCell(xs + "," + zs)
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

// parseColor accepts "#rrggbb" or "r,g,b" with components in [0,1].
func parseColor(s string) (core.Color, error) {
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return core.Color{}, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return core.Color{}, fmt.Errorf("invalid color %q", s)
		}
		return core.RGB(float64(v>>16&0xff)/255, float64(v>>8&0xff)/255, float64(v&0xff)/255), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Color{}, fmt.Errorf("invalid color %q: want #rrggbb or r,g,b", s)
	}
	var rgb [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 || f > 1 {
			return core.Color{}, fmt.Errorf("invalid color component %q", p)
		}
		rgb[i] = f
	}
	return core.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// parseVec accepts "x,y".
func parseVec(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid offset %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset %q", s)
	}
	return x, y, nil
}
