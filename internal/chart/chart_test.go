package chart

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
)

func salesRows() models.Rows {
	return models.Rows{
		models.RowOf("Region", "North", "Sales", "10"),
		models.RowOf("Region", "South", "Sales", "abc"),
		models.RowOf("Region", "North", "Sales", "7"),
	}
}

func TestBuildSeries(t *testing.T) {
	spec, err := Build(salesRows(), Selection{X: "Region", Y: "Sales"}, Bar)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.Kind != Bar || spec.Overridden || spec.Series == nil || spec.Grid != nil {
		t.Fatalf("Unexpected spec %+v", spec)
	}
	s := spec.Series
	if strings.Join(s.Labels, ",") != "North,South,North" {
		t.Errorf("Labels should follow row order without dedup, got %v", s.Labels)
	}
	if s.Values[0] != 10 || !s.Values[1].IsGap() || s.Values[2] != 7 {
		t.Errorf("Unexpected values %v", s.Values)
	}
	if s.Colors[0] != "hsl(100, 70%, 60%)" {
		t.Errorf("Unexpected first color %q", s.Colors[0])
	}

	b, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"values":[10,null,7]`) {
		t.Errorf("Expected gap encoded as null, got %s", b)
	}
}

func TestBuildRequiresXAndY(t *testing.T) {
	for _, sel := range []Selection{{X: "Region"}, {Y: "Sales"}, {}} {
		if _, err := Build(salesRows(), sel, Line); !types.IsKind(err, types.KindValidation) {
			t.Errorf("%+v: expected validation error, got %v", sel, err)
		}
	}

	if _, err := Build(salesRows(), Selection{X: "Region", Y: "Sales"}, ThreeD); !types.IsKind(err, types.KindValidation) {
		t.Errorf("Expected validation error for 3d without Z, got %v", err)
	}

	if _, err := Build(salesRows(), Selection{X: "Region", Y: "Missing"}, Bar); !types.IsKind(err, types.KindValidation) {
		t.Errorf("Expected validation error for unknown field, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{"": Bar, "LINE": Line, " pie ": Pie, "scatter": Scatter, "3d": ThreeD, "radar": Bar}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestGrid(t *testing.T) {
	rows := models.Rows{
		models.RowOf("X", "A", "Y", "10", "Z", "P"),
		models.RowOf("X", "B", "Y", "20", "Z", "P"),
		models.RowOf("X", "A", "Y", "5", "Z", "Q"),
	}
	spec, err := Build(rows, Selection{X: "X", Y: "Y", Z: "Z"}, ThreeD)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	g := spec.Grid
	if g == nil || spec.Series != nil {
		t.Fatalf("Expected grid, got %+v", spec)
	}
	if strings.Join(g.XCategories, ",") != "A,B" || strings.Join(g.ZCategories, ",") != "P,Q" {
		t.Errorf("Unexpected categories %v %v", g.XCategories, g.ZCategories)
	}
	if len(g.Cells) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(g.Cells))
	}

	byKey := map[string]Cell{}
	for _, c := range g.Cells {
		byKey[c.X+c.Z] = c
	}
	if byKey["BP"].Height != 30 || byKey["AP"].Height != 15 || byKey["AQ"].Height != 7.5 {
		t.Errorf("Unexpected heights %+v", byKey)
	}
	if _, ok := byKey["BQ"]; ok {
		t.Error("Missing pair should not produce a cell")
	}
	if byKey["AP"].Color != Palette[0] || byKey["AQ"].Color != Palette[1] {
		t.Errorf("Colors should follow Z category index, got %+v", byKey)
	}
	// two X and two Z categories centre around the origin
	if byKey["AP"].Position != [3]float64{-6, 7.5, -6} {
		t.Errorf("Unexpected position %v", byKey["AP"].Position)
	}
	if byKey["BP"].Position != [3]float64{0, 15, -6} {
		t.Errorf("Unexpected position %v", byKey["BP"].Position)
	}
}

func TestGridFirstRowWinsAndSkipsGaps(t *testing.T) {
	rows := models.Rows{
		models.RowOf("X", "A", "Y", "4", "Z", "P"),
		models.RowOf("X", "A", "Y", "8", "Z", "P"),
		models.RowOf("X", "B", "Y", "n/a", "Z", "P"),
	}
	g := BuildGrid(rows, Selection{X: "X", Y: "Y", Z: "Z"})
	if g.MaxMagnitude != 8 {
		t.Errorf("Max magnitude spans every row, got %v", g.MaxMagnitude)
	}
	if len(g.Cells) != 1 || g.Cells[0].Magnitude != 4 || g.Cells[0].Height != 15 {
		t.Errorf("Unexpected cells %+v", g.Cells)
	}
}

func TestGridZeroMagnitude(t *testing.T) {
	rows := models.Rows{
		models.RowOf("X", "A", "Y", "0", "Z", "P"),
		models.RowOf("X", "B", "Y", "x", "Z", "P"),
	}
	g := BuildGrid(rows, Selection{X: "X", Y: "Y", Z: "Z"})
	if !g.Empty || len(g.Cells) != 0 {
		t.Errorf("Expected empty grid, got %+v", g)
	}
	for _, c := range g.Cells {
		if math.IsNaN(c.Height) || math.IsInf(c.Height, 0) {
			t.Error("Heights must be finite")
		}
	}
}

func TestAutoThreeD(t *testing.T) {
	rows := models.Rows{
		models.RowOf("a", "1", "b", "2", "c", "3"),
		models.RowOf("a", "4", "b", " 5.5 ", "c", "-6"),
	}
	sel := Selection{X: "a", Y: "b", Z: "c"}
	for _, k := range []Kind{Bar, Line, Pie, Scatter} {
		spec, err := Build(rows, sel, k)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if spec.Kind != ThreeD || !spec.Overridden || spec.Requested != k || spec.Grid == nil {
			t.Errorf("%s: expected override to 3d, got %+v", k, spec)
		}
	}

	rows = append(rows, models.RowOf("a", "7", "b", "8", "c", "nine"))
	spec, err := Build(rows, sel, Line)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.Kind != Line || spec.Overridden {
		t.Errorf("A non-numeric Z must keep the requested kind, got %+v", spec)
	}

	if ResolveKind(nil, sel, Pie) != Pie {
		t.Error("No rows must keep the requested kind")
	}
	if ResolveKind(rows[:2], Selection{X: "a", Y: "b"}, Pie) != Pie {
		t.Error("Override needs all three fields selected")
	}
}

// Categorical X values keep the requested kind; an explicit 3d request lays
// the same rows out as a sparse grid.
func TestCategoricalXGrid(t *testing.T) {
	rows := models.Rows{
		models.RowOf("x", "A", "y", "1", "z", "10"),
		models.RowOf("x", "B", "y", "2", "z", "10"),
		models.RowOf("x", "A", "y", "3", "z", "20"),
	}
	sel := Selection{X: "x", Y: "y", Z: "z"}

	spec, err := Build(rows, sel, Bar)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.Kind != Bar || spec.Overridden || spec.Series == nil {
		t.Fatalf("Expected bar without override, got %+v", spec)
	}
	if strings.Join(spec.Series.Labels, ",") != "A,B,A" {
		t.Errorf("Expected labels A,B,A, got %v", spec.Series.Labels)
	}

	spec, err = Build(rows, sel, ThreeD)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	g := spec.Grid
	if spec.Kind != ThreeD || spec.Overridden || g == nil {
		t.Fatalf("Expected a requested 3d grid, got %+v", spec)
	}
	if strings.Join(g.XCategories, ",") != "A,B" || strings.Join(g.ZCategories, ",") != "10,20" {
		t.Errorf("Unexpected categories %v %v", g.XCategories, g.ZCategories)
	}

	got := map[string]float64{}
	for _, c := range g.Cells {
		got[c.X+"/"+c.Z] = c.Magnitude
	}
	want := map[string]float64{"A/10": 1, "B/10": 2, "A/20": 3}
	if len(got) != len(want) {
		t.Errorf("Expected %d cells, got %v", len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected magnitude %v, got %v", k, v, got[k])
		}
	}
	if _, ok := got["B/20"]; ok {
		t.Error("B/20 has no row and must not be drawn")
	}
}

func TestParseNumber(t *testing.T) {
	ok := []string{"1", "-2.5", " 3 ", "1e3"}
	bad := []string{"", "  ", "abc", "12abc", "NaN", "Inf"}
	for _, s := range ok {
		if _, valid := ParseNumber(s); !valid {
			t.Errorf("%q should parse", s)
		}
	}
	for _, s := range bad {
		if _, valid := ParseNumber(s); valid {
			t.Errorf("%q should not parse", s)
		}
	}
}
