package tt

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/truetype/internal/testfont"
)

func TestKernAdjust(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{})
	if otf.Kern == nil {
		t.Fatal("expected font to have a kern table")
	}
	if otf.Kern.NSubtables() != 1 {
		t.Fatalf("expected 1 kern sub-table, have %d", otf.Kern.NSubtables())
	}
	if otf.Kern.Subtable(0).NPairs() != 1 {
		t.Errorf("expected 1 kerning pair, have %d", otf.Kern.Subtable(0).NPairs())
	}
	if d, ok := otf.Kern.Adjust(1, 2); !ok || d != -40 {
		t.Errorf("expected kerning of (1,2) to be -40, is %d (%v)", d, ok)
	}
	// pairs are ordered: the mirrored pair carries no kerning
	if _, ok := otf.Kern.Adjust(2, 1); ok {
		t.Error("expected no kerning for mirrored pair (2,1)")
	}
}

func TestKernAppleFlavor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{AppleKern: true})
	if otf.Kern.NSubtables() != 1 {
		t.Fatalf("expected 1 kern sub-table, have %d", otf.Kern.NSubtables())
	}
	if d, ok := otf.Kern.Adjust(1, 2); !ok || d != -40 {
		t.Errorf("expected kerning of (1,2) to be -40, is %d (%v)", d, ok)
	}
	if !otf.Kern.Subtable(0).Coverage.Horizontal {
		t.Error("expected kern sub-table coverage to be horizontal")
	}
}

func TestKernAbsent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{NoKern: true})
	if otf.Kern != nil {
		t.Fatal("expected font without kern table to have nil Kern")
	}
	if _, ok := otf.Kern.Adjust(1, 2); ok {
		t.Error("expected Adjust on nil kern table to come up empty")
	}
}

func TestKernUnsupportedFormatSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	kern := testfont.KernMSRaw(
		testfont.KernMSUnsupported(2, 18),
		testfont.KernMSSubtable([]testfont.KernPair{{Left: 1, Right: 2, Value: -40}}),
	)
	fb := testfont.Base(testfont.Options{})
	fb.AddTable("kern", kern)
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err)
	}
	if otf.Kern.NSubtables() != 1 {
		t.Fatalf("expected format-2 sub-table to be dropped, have %d sub-tables",
			otf.Kern.NSubtables())
	}
	if d, ok := otf.Kern.Adjust(1, 2); !ok || d != -40 {
		t.Errorf("expected kerning of (1,2) to survive the dropped sub-table, is %d (%v)", d, ok)
	}
	found := false
	for _, e := range otf.Errors() {
		if strings.Contains(e.Issue, "kerning") && e.Severity == SeverityMajor {
			found = true
		}
	}
	if !found {
		t.Error("expected a major error recording the unsupported kern format")
	}
	if otf.HasCriticalErrors() {
		t.Error("expected dropped kern sub-table to be non-critical")
	}
}

func TestKernMultipleSubtables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	kern := testfont.KernMS(
		[]testfont.KernPair{{Left: 1, Right: 2, Value: -40}},
		[]testfont.KernPair{{Left: 1, Right: 2, Value: -10}, {Left: 2, Right: 1, Value: 5}},
	)
	fb := testfont.Base(testfont.Options{})
	fb.AddTable("kern", kern)
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err)
	}
	if otf.Kern.NSubtables() != 2 {
		t.Fatalf("expected 2 kern sub-tables, have %d", otf.Kern.NSubtables())
	}
	// sub-tables are consulted in order, the first carrying the pair wins
	if d, _ := otf.Kern.Adjust(1, 2); d != -40 {
		t.Errorf("expected first sub-table to win for (1,2), got %d", d)
	}
	if d, _ := otf.Kern.Adjust(2, 1); d != 5 {
		t.Errorf("expected (2,1) from second sub-table, got %d", d)
	}
}

func TestKernCoverageFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	cov := coverageFlags(0x0001)
	if !cov.Horizontal || cov.Minimum || cov.CrossStream || cov.Override || cov.Format != 0 {
		t.Errorf("unexpected decoding of coverage 0x0001: %+v", cov)
	}
	cov = coverageFlags(0x020d)
	if cov.Format != 2 {
		t.Errorf("expected format selector 2 from coverage high byte, got %d", cov.Format)
	}
	if !cov.Horizontal || cov.Minimum || !cov.CrossStream || !cov.Override {
		t.Errorf("unexpected decoding of coverage 0x020d: %+v", cov)
	}
}
