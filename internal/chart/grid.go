package chart

import (
	"github.com/localnerve/excel-analyzer/internal/models"
)

const (
	// MaxExtent is the rendered height of the tallest column
	MaxExtent = 30.0
	// Spacing is the distance between neighbouring column centres
	Spacing = 6.0
	// ColumnWidth is the footprint of a column on both horizontal axes
	ColumnWidth = 3.0
)

// Palette colors Z categories in order, cycling
var Palette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2"}

// Cell is one column of the 3-D grid
type Cell struct {
	X         string     `json:"x"`
	Z         string     `json:"z"`
	XIndex    int        `json:"xIndex"`
	ZIndex    int        `json:"zIndex"`
	Magnitude float64    `json:"magnitude"`
	Height    float64    `json:"height"`
	Position  [3]float64 `json:"position"`
	Color     string     `json:"color"`
}

// Grid is the 3-D chart data
type Grid struct {
	XCategories  []string          `json:"xCategories"`
	ZCategories  []string          `json:"zCategories"`
	Colors       map[string]string `json:"colors"`
	MaxMagnitude float64           `json:"maxMagnitude"`
	ColumnWidth  float64           `json:"columnWidth"`
	Cells        []Cell            `json:"cells"`
	Empty        bool              `json:"empty"`
}

// BuildGrid lays out one column per (x, z) category pair that has a row.
// The first matching row supplies the magnitude; missing or non-numeric pairs
// are skipped. Heights scale so the largest magnitude reaches MaxExtent. When
// the largest magnitude is not positive nothing is drawn.
func BuildGrid(rows models.Rows, sel Selection) *Grid {
	g := &Grid{
		XCategories: distinct(rows, sel.X),
		ZCategories: distinct(rows, sel.Z),
		Colors:      make(map[string]string),
		ColumnWidth: ColumnWidth,
		Cells:       []Cell{},
	}
	for i, z := range g.ZCategories {
		g.Colors[z] = Palette[i%len(Palette)]
	}

	for _, row := range rows {
		if f, ok := ParseNumber(row.Value(sel.Y)); ok && f > g.MaxMagnitude {
			g.MaxMagnitude = f
		}
	}
	if g.MaxMagnitude <= 0 {
		g.Empty = true
		return g
	}
	scale := MaxExtent / g.MaxMagnitude

	first := make(map[[2]string]models.Row, len(rows))
	for _, row := range rows {
		k := [2]string{row.Value(sel.X), row.Value(sel.Z)}
		if _, seen := first[k]; !seen {
			first[k] = row
		}
	}

	xOffset := float64(len(g.XCategories)) * Spacing / 2
	zOffset := float64(len(g.ZCategories)) * Spacing / 2
	for zi, z := range g.ZCategories {
		for xi, x := range g.XCategories {
			row, ok := first[[2]string{x, z}]
			if !ok {
				continue
			}
			mag, ok := ParseNumber(row.Value(sel.Y))
			if !ok {
				continue
			}
			h := mag * scale
			g.Cells = append(g.Cells, Cell{
				X:         x,
				Z:         z,
				XIndex:    xi,
				ZIndex:    zi,
				Magnitude: mag,
				Height:    h,
				Position:  [3]float64{float64(xi)*Spacing - xOffset, h / 2, float64(zi)*Spacing - zOffset},
				Color:     g.Colors[z],
			})
		}
	}
	g.Empty = len(g.Cells) == 0
	return g
}

// distinct returns the values under key in first-seen order
func distinct(rows models.Rows, key string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, row := range rows {
		v := row.Value(key)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
