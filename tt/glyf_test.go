package tt

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/truetype/internal/testfont"
)

func TestGlyphEmptyRecords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{})
	notdef, ok := otf.Glyf.Glyph(0)
	if !ok {
		t.Fatal("expected glyph 0 to be present")
	}
	if notdef.NContours != 0 || notdef.Contours != nil {
		t.Errorf("expected glyph 0 to be empty, has %d contours", notdef.NContours)
	}
	sentinel, ok := otf.Glyf.Glyph(3)
	if !ok {
		t.Fatal("expected sentinel glyph to be present")
	}
	if sentinel.Contours.NPoints() != 0 {
		t.Error("expected sentinel glyph to carry no points")
	}
	if _, ok = otf.Glyf.Glyph(4); ok {
		t.Error("expected lookup beyond the glyph sequence to fail")
	}
}

func TestGlyphBoundingBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{})
	triangle, _ := otf.Glyf.Glyph(1)
	if triangle.XMin != 0 || triangle.YMin != 0 || triangle.XMax != 1000 || triangle.YMax != 800 {
		t.Errorf("unexpected bounding box for glyph 1: (%d,%d)-(%d,%d)",
			triangle.XMin, triangle.YMin, triangle.XMax, triangle.YMax)
	}
}

func TestGlyphFlagRunExpansion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	plain := parseFont(t, testfont.Options{})
	packed := parseFont(t, testfont.Options{CompressFlags: true})
	for gid := GlyphIndex(1); gid <= 2; gid++ {
		g1, _ := plain.Glyf.Glyph(gid)
		g2, _ := packed.Glyf.Glyph(gid)
		if g1.Contours.NPoints() != g2.Contours.NPoints() {
			t.Fatalf("glyph %d: flag-run expansion yields %d points, expected %d",
				gid, g2.Contours.NPoints(), g1.Contours.NPoints())
		}
		for i, p := range g1.Contours.Points {
			q := g2.Contours.Points[i]
			if p.X != q.X || p.Y != q.Y || p.OnCurve != q.OnCurve {
				t.Errorf("glyph %d point %d differs after flag-run expansion: %v vs %v",
					gid, i, p, q)
			}
		}
	}
}

func TestGlyphDeltaReconstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	// two contours with coordinates exercising all three delta encodings:
	// zero delta, short (byte) delta with both signs, and int16 delta
	contour1 := []testfont.Point{
		{X: 0, Y: 0, OnCurve: true},
		{X: 200, Y: 0, OnCurve: false},   // short +x, zero y
		{X: 200, Y: -200, OnCurve: true}, // zero x, short -y
		{X: -100, Y: 700, OnCurve: true}, // int16 -x, int16 +y
	}
	contour2 := []testfont.Point{
		{X: 2000, Y: -1500, OnCurve: true}, // int16 deltas continuing from contour1
		{X: 2000, Y: -1500, OnCurve: false},
	}
	glyph := testfont.Glyph([][]testfont.Point{contour1, contour2}, false)
	glyf, offsets := testfont.Glyf(nil, glyph)
	fb := testfont.New().
		AddTable("head", testfont.Head(1000, 0)).
		AddTable("maxp", testfont.MaxP(2)).
		AddTable("loca", testfont.LocaShort(offsets)).
		AddTable("glyf", glyf).
		AddTable("cmap", testfont.WinCMap(testfont.CMapFormat4(nil, 0)))
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err)
	}
	g, _ := otf.Glyf.Glyph(1)
	want := append(append([]testfont.Point{}, contour1...), contour2...)
	if g.Contours.NPoints() != len(want) {
		t.Fatalf("expected %d points, have %d", len(want), g.Contours.NPoints())
	}
	if len(g.Contours.EndIndices) != 2 || g.Contours.EndIndices[0] != 3 || g.Contours.EndIndices[1] != 5 {
		t.Errorf("unexpected contour end indices: %v", g.Contours.EndIndices)
	}
	for i, p := range g.Contours.Points {
		if p.X != want[i].X || p.Y != want[i].Y || p.OnCurve != want[i].OnCurve {
			t.Errorf("point %d: decoded (%d,%d,%v), expected (%d,%d,%v)",
				i, p.X, p.Y, p.OnCurve, want[i].X, want[i].Y, want[i].OnCurve)
		}
	}
}

func TestGlyphTruncatedBody(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	glyph := testfont.Glyph([][]testfont.Point{{
		{X: 0, Y: 0, OnCurve: true},
		{X: 500, Y: 800, OnCurve: true},
		{X: 1000, Y: 0, OnCurve: true},
	}}, false)
	truncated := glyph[:len(glyph)-3] // cut into the coordinate streams
	glyf, offsets := testfont.Glyf(nil, truncated)
	fb := testfont.New().
		AddTable("head", testfont.Head(1000, 0)).
		AddTable("maxp", testfont.MaxP(2)).
		AddTable("loca", testfont.LocaShort(offsets)).
		AddTable("glyf", glyf).
		AddTable("cmap", testfont.WinCMap(testfont.CMapFormat4(nil, 0)))
	if _, err := Parse(fb.Build()); err == nil {
		t.Fatal("expected truncated glyph body to fail, did not")
	}
}
