package tt

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/truetype/internal/testfont"
)

func TestCMapFormat4Delta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{})
	if r, ok := otf.CMap.GlyphMap.CodePoint(1); !ok || r != 'A' {
		t.Errorf("expected glyph 1 to render 'A', renders %q (%v)", r, ok)
	}
	if r, ok := otf.CMap.GlyphMap.CodePoint(2); !ok || r != 'B' {
		t.Errorf("expected glyph 2 to render 'B', renders %q (%v)", r, ok)
	}
	if _, ok := otf.CMap.GlyphMap.CodePoint(0); ok {
		t.Error("expected glyph 0 (.notdef) not to be reachable through the cmap")
	}
}

func TestCMapFormat4RangeOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	// segment with idRangeOffset indirection: 'a' -> 5, 'b' unmapped
	// (glyph id array entry 0), 'c' -> 7
	cmap4 := testfont.CMapFormat4([]testfont.Segment{
		{Start: 'a', End: 'c', GlyphIDs: []uint16{5, 0, 7}},
	}, 0)
	glyf, offsets := testfont.Glyf(nil, nil, nil, nil, nil, nil, nil, nil)
	fb := testfont.New().
		AddTable("head", testfont.Head(1000, 0)).
		AddTable("maxp", testfont.MaxP(8)).
		AddTable("loca", testfont.LocaShort(offsets)).
		AddTable("glyf", glyf).
		AddTable("cmap", testfont.WinCMap(cmap4))
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := otf.CMap.GlyphMap.CodePoint(5); !ok || r != 'a' {
		t.Errorf("expected glyph 5 to render 'a', renders %q (%v)", r, ok)
	}
	if r, ok := otf.CMap.GlyphMap.CodePoint(7); !ok || r != 'c' {
		t.Errorf("expected glyph 7 to render 'c', renders %q (%v)", r, ok)
	}
	if _, ok := otf.CMap.GlyphMap.CodePoint(6); ok {
		t.Error("expected glyph 6 to stay unmapped")
	}
}

func TestCMapFormat4ReservedPad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	// a non-zero reservedPad together with the mandatory 0xFFFF sentinel
	// segment is tolerated
	tolerated := testfont.CMapFormat4([]testfont.Segment{
		{Start: 'A', End: 'B', Delta: int16(1 - 'A')},
	}, 0xdead)
	m := GlyphCharacterMap{}
	if err := parseCMapFormat4(m, tolerated); err != nil {
		t.Errorf("expected non-zero reservedPad with sentinel to be tolerated, got %v", err)
	}
	if len(m) != 2 {
		t.Errorf("expected 2 mapping entries, have %d", len(m))
	}
	// without the sentinel, a non-zero reservedPad is malformed
	if err := parseCMapFormat4(GlyphCharacterMap{}, padWithoutSentinel()); err != ErrMalformedCMap {
		t.Errorf("expected ErrMalformedCMap, got %v", err)
	}
}

func TestCMapNoUsableSubtable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	fb := testfont.Base(testfont.Options{})
	fb.AddTable("cmap", testfont.WinCMap(padWithoutSentinel()))
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err) // decode completes, the defect is recorded
	}
	if len(otf.Errors()) == 0 {
		t.Error("expected recorded errors for unusable cmap, have none")
	}
	if otf.HasCriticalErrors() {
		t.Error("expected unusable cmap to be non-critical")
	}
	if len(otf.CMap.GlyphMap) != 0 {
		t.Errorf("expected empty character map, has %d entries", len(otf.CMap.GlyphMap))
	}
}

func TestCMapFormat12(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseFont(t, testfont.Options{CMap12: true})
	if r, ok := otf.CMap.GlyphMap.CodePoint(1); !ok || r != 'A' {
		t.Errorf("expected glyph 1 to render 'A', renders %q (%v)", r, ok)
	}
	// the format-12 sub-table re-records glyph 2 for a non-BMP code point
	if r, ok := otf.CMap.GlyphMap.CodePoint(2); !ok || r != 0x1F600 {
		t.Errorf("expected glyph 2 to render U+1F600, renders %#x (%v)", r, ok)
	}
}

func TestCMapUnsupportedSubtableFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	format6 := make([]byte, 12)
	binary.BigEndian.PutUint16(format6, 6)
	binary.BigEndian.PutUint16(format6[2:], 12) // length
	cmap := testfont.CMap(
		testfont.EncodingRecord{PlatformID: 3, EncodingID: 1, Subtable: format6},
		testfont.EncodingRecord{PlatformID: 3, EncodingID: 1, Subtable: testfont.CMapFormat4([]testfont.Segment{
			{Start: 'A', End: 'B', Delta: int16(1 - 'A')},
		}, 0)},
	)
	fb := testfont.Base(testfont.Options{})
	fb.AddTable("cmap", cmap)
	otf, err := Parse(fb.Build())
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := otf.CMap.GlyphMap.CodePoint(1); !ok || r != 'A' {
		t.Errorf("expected glyph 1 to render 'A', renders %q (%v)", r, ok)
	}
	if len(otf.Warnings()) == 0 {
		t.Error("expected a warning for the format-6 sub-table, have none")
	}
}

func TestCMapNonWindowsRecordIgnored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	if supportedCMapRecord(0, 3) {
		t.Error("expected Unicode-platform record to be unsupported")
	}
	if supportedCMapRecord(1, 0) {
		t.Error("expected Macintosh-platform record to be unsupported")
	}
	if !supportedCMapRecord(3, 1) || !supportedCMapRecord(3, 10) || !supportedCMapRecord(3, 0) {
		t.Error("expected Windows records 0/1/10 to be supported")
	}
	if supportedCMapRecord(3, 2) {
		t.Error("expected Windows ShiftJIS record to be unsupported")
	}
}

// ---------------------------------------------------------------------------

// padWithoutSentinel encodes a format-4 sub-table with a non-zero
// reservedPad whose last segment does not end at 0xFFFF.
func padWithoutSentinel() []byte {
	buf := &bytes.Buffer{}
	w := func(v any) { binary.Write(buf, binary.BigEndian, v) }
	w(uint16(4))  // format
	w(uint16(24)) // length
	w(uint16(0))  // language
	w(uint16(2))  // segCountX2
	w(uint16(2))  // searchRange
	w(uint16(0))  // entrySelector
	w(uint16(0))  // rangeShift
	w(uint16('B'))         // endCode[0]
	w(uint16(0xbeef))      // reservedPad, must be 0
	w(uint16('A'))         // startCode[0]
	w(int16(1 - 'A'))      // idDelta[0]
	w(uint16(0))           // idRangeOffset[0]
	return buf.Bytes()
}
