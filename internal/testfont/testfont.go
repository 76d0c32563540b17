/*
Package testfont assembles small TrueType binaries in memory, so that the
decoder tests do not depend on font files shipped with the repository.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package testfont

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"sort"
)

// Builder collects font tables and assembles them into an sfnt binary.
type Builder struct {
	fontType uint32
	tables   map[string][]byte
}

// New creates a Builder for a font with TrueType outlines.
func New() *Builder {
	return &Builder{
		fontType: 0x00010000,
		tables:   make(map[string][]byte),
	}
}

// FontType overrides the sfnt version tag, e.g. 'true' for the Apple
// flavour, or garbage for negative tests.
func (fb *Builder) FontType(t uint32) *Builder {
	fb.fontType = t
	return fb
}

// AddTable registers a table under a 4-letter tag. Adding a tag twice
// overwrites the earlier data.
func (fb *Builder) AddTable(tag string, data []byte) *Builder {
	fb.tables[tag] = data
	return fb
}

// Build assembles the offset table, the table records (sorted by tag) and
// the table data, each table padded to a 4-byte boundary.
func (fb *Builder) Build() []byte {
	tags := make([]string, 0, len(fb.tables))
	for tag := range fb.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	entrySelector := 0
	if n > 0 {
		entrySelector = bits.Len(uint(n)) - 1
	}
	searchRange := (1 << entrySelector) * 16
	buf := &bytes.Buffer{}
	be(buf, fb.fontType)
	be(buf, uint16(n))
	be(buf, uint16(searchRange))
	be(buf, uint16(entrySelector))
	be(buf, uint16(n*16-searchRange))
	offset := 12 + 16*n
	for _, tag := range tags {
		buf.WriteString(tag)
		be(buf, uint32(0)) // checksum, not verified by the decoder
		be(buf, uint32(offset))
		be(buf, uint32(len(fb.tables[tag])))
		offset += pad4(len(fb.tables[tag]))
	}
	for _, tag := range tags {
		data := fb.tables[tag]
		buf.Write(data)
		buf.Write(make([]byte, pad4(len(data))-len(data)))
	}
	return buf.Bytes()
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func be(buf *bytes.Buffer, v any) {
	binary.Write(buf, binary.BigEndian, v)
}

// --- Scalar tables ---------------------------------------------------------

// Head encodes a 54-byte 'head' table carrying the given unitsPerEm and
// indexToLocFormat; all other fields hold plausible constants.
func Head(unitsPerEm, indexToLocFormat uint16) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint32(0x00010000)) // version
	be(buf, uint32(0))          // fontRevision
	be(buf, uint32(0))          // checkSumAdjustment
	be(buf, uint32(0x5F0F3CF5)) // magicNumber
	be(buf, uint16(0))          // flags
	be(buf, unitsPerEm)
	be(buf, uint64(0)) // created
	be(buf, uint64(0)) // modified
	be(buf, int16(0))  // xMin
	be(buf, int16(0))  // yMin
	be(buf, int16(1000))
	be(buf, int16(1000))
	be(buf, uint16(0)) // macStyle
	be(buf, uint16(8)) // lowestRecPPEM
	be(buf, int16(2))  // fontDirectionHint
	be(buf, indexToLocFormat)
	be(buf, int16(0)) // glyphDataFormat
	// exactly 54 bytes: the decoder's minimum, and we want tests to
	// exercise exactly that
	return buf.Bytes()
}

// MaxP encodes a version 1.0 'maxp' table with the given glyph count.
func MaxP(numGlyphs uint16) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint32(0x00010000))
	be(buf, numGlyphs)
	buf.Write(make([]byte, 26)) // remaining v1.0 profile fields, all zero
	return buf.Bytes()
}

// LocaShort encodes 'loca' in the short format: each entry is the byte
// offset divided by two. Offsets must all be even.
func LocaShort(offsets []uint32) []byte {
	buf := &bytes.Buffer{}
	for _, off := range offsets {
		be(buf, uint16(off/2))
	}
	return buf.Bytes()
}

// LocaLong encodes 'loca' in the long format.
func LocaLong(offsets []uint32) []byte {
	buf := &bytes.Buffer{}
	for _, off := range offsets {
		be(buf, off)
	}
	return buf.Bytes()
}

// --- Glyph outlines ----------------------------------------------------------

// Point is an outline vertex handed to Glyph.
type Point struct {
	X, Y    int16
	OnCurve bool
}

// Glyph encodes a simple glyph from its contours. Coordinates are encoded
// in the most compact delta form (zero delta, signed byte, or int16), and
// runs of equal flags are collapsed with the repeat bit when compressFlags
// is set.
func Glyph(contours [][]Point, compressFlags bool) []byte {
	var pts []Point
	var ends []uint16
	for _, c := range contours {
		pts = append(pts, c...)
		ends = append(ends, uint16(len(pts)-1))
	}
	xmin, ymin, xmax, ymax := bbox(pts)
	flags := make([]byte, len(pts))
	var xdata, ydata bytes.Buffer
	px, py := int16(0), int16(0)
	for i, p := range pts {
		var flag byte
		if p.OnCurve {
			flag |= 0x01
		}
		flag |= encodeDelta(&xdata, p.X-px, 0x02, 0x10)
		flag |= encodeDelta(&ydata, p.Y-py, 0x04, 0x20)
		flags[i] = flag
		px, py = p.X, p.Y
	}
	buf := &bytes.Buffer{}
	be(buf, int16(len(contours)))
	be(buf, xmin)
	be(buf, ymin)
	be(buf, xmax)
	be(buf, ymax)
	for _, e := range ends {
		be(buf, e)
	}
	be(buf, uint16(0)) // instructionLength
	writeFlags(buf, flags, compressFlags)
	buf.Write(xdata.Bytes())
	buf.Write(ydata.Bytes())
	return buf.Bytes()
}

func encodeDelta(buf *bytes.Buffer, d int16, shortbit, samebit byte) byte {
	switch {
	case d == 0:
		return samebit
	case d > 0 && d <= 255:
		buf.WriteByte(byte(d))
		return shortbit | samebit
	case d < 0 && d >= -255:
		buf.WriteByte(byte(-d))
		return shortbit
	default:
		be(buf, d)
		return 0
	}
}

func writeFlags(buf *bytes.Buffer, flags []byte, compress bool) {
	if !compress {
		buf.Write(flags)
		return
	}
	for i := 0; i < len(flags); {
		run := 1
		for i+run < len(flags) && flags[i+run] == flags[i] && run < 256 {
			run++
		}
		if run > 1 {
			buf.WriteByte(flags[i] | 0x08)
			buf.WriteByte(byte(run - 1))
		} else {
			buf.WriteByte(flags[i])
		}
		i += run
	}
}

func bbox(pts []Point) (int16, int16, int16, int16) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	xmin, ymin := pts[0].X, pts[0].Y
	xmax, ymax := xmin, ymin
	for _, p := range pts[1:] {
		if p.X < xmin {
			xmin = p.X
		}
		if p.X > xmax {
			xmax = p.X
		}
		if p.Y < ymin {
			ymin = p.Y
		}
		if p.Y > ymax {
			ymax = p.Y
		}
	}
	return xmin, ymin, xmax, ymax
}

// Glyf concatenates glyph bodies, each padded to an even length, and
// returns the table data plus the per-glyph start offsets (len(glyphs)+1
// entries, suitable for LocaShort/LocaLong).
func Glyf(glyphs ...[]byte) ([]byte, []uint32) {
	buf := &bytes.Buffer{}
	offsets := make([]uint32, 0, len(glyphs)+1)
	for _, g := range glyphs {
		offsets = append(offsets, uint32(buf.Len()))
		buf.Write(g)
		if buf.Len()%2 != 0 {
			buf.WriteByte(0)
		}
	}
	offsets = append(offsets, uint32(buf.Len()))
	return buf.Bytes(), offsets
}

// --- Character maps ----------------------------------------------------------

// Segment is one format-4 mapping segment. With GlyphIDs nil, lookups use
// Delta arithmetic; with GlyphIDs set (one per code in [Start,End]), the
// segment is encoded through the idRangeOffset indirection.
type Segment struct {
	Start, End uint16
	Delta      int16
	GlyphIDs   []uint16
}

// CMapFormat4 encodes a format-4 sub-table from mapping segments. The
// mandatory sentinel segment 0xFFFF is appended automatically. A non-zero
// reservedPad may be forced for negative tests.
func CMapFormat4(segs []Segment, reservedPad uint16) []byte {
	all := make([]Segment, len(segs), len(segs)+1)
	copy(all, segs)
	all = append(all, Segment{Start: 0xFFFF, End: 0xFFFF, Delta: 1})
	segCount := len(all)

	var glyphIDs []uint16
	rangeOffsets := make([]uint16, segCount)
	for i, s := range all {
		if s.GlyphIDs == nil {
			continue
		}
		// byte distance from &idRangeOffset[i] to this segment's ids in
		// the glyph id array following the idRangeOffset array
		rangeOffsets[i] = uint16(2*(segCount-i) + 2*len(glyphIDs))
		glyphIDs = append(glyphIDs, s.GlyphIDs...)
	}

	length := 14 + 2 + 8*segCount + 2*len(glyphIDs)
	buf := &bytes.Buffer{}
	be(buf, uint16(4)) // format
	be(buf, uint16(length))
	be(buf, uint16(0)) // language
	be(buf, uint16(2*segCount))
	searchRange := 2 * (1 << (bits.Len(uint(segCount)) - 1))
	be(buf, uint16(searchRange))
	be(buf, uint16(bits.Len(uint(segCount))-1))
	be(buf, uint16(2*segCount-searchRange))
	for _, s := range all {
		be(buf, s.End)
	}
	be(buf, reservedPad)
	for _, s := range all {
		be(buf, s.Start)
	}
	for _, s := range all {
		be(buf, s.Delta)
	}
	for _, ro := range rangeOffsets {
		be(buf, ro)
	}
	for _, gid := range glyphIDs {
		be(buf, gid)
	}
	return buf.Bytes()
}

// Group is one format-12 mapping group.
type Group struct {
	StartCode  uint32
	EndCode    uint32
	StartGlyph uint32
}

// CMapFormat12 encodes a format-12 sub-table from mapping groups.
func CMapFormat12(groups []Group) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint16(12))
	be(buf, uint16(0)) // reserved
	be(buf, uint32(16+12*len(groups)))
	be(buf, uint32(0)) // language
	be(buf, uint32(len(groups)))
	for _, g := range groups {
		be(buf, g.StartCode)
		be(buf, g.EndCode)
		be(buf, g.StartGlyph)
	}
	return buf.Bytes()
}

// EncodingRecord pairs a platform/encoding id with an encoded sub-table.
type EncodingRecord struct {
	PlatformID uint16
	EncodingID uint16
	Subtable   []byte
}

// CMap encodes a 'cmap' table from encoding records.
func CMap(records ...EncodingRecord) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint16(0)) // version
	be(buf, uint16(len(records)))
	offset := 4 + 8*len(records)
	for _, rec := range records {
		be(buf, rec.PlatformID)
		be(buf, rec.EncodingID)
		be(buf, uint32(offset))
		offset += len(rec.Subtable)
	}
	for _, rec := range records {
		buf.Write(rec.Subtable)
	}
	return buf.Bytes()
}

// WinCMap encodes a 'cmap' table with a single Windows/Unicode-BMP
// (platform 3, encoding 1) record.
func WinCMap(subtable []byte) []byte {
	return CMap(EncodingRecord{PlatformID: 3, EncodingID: 1, Subtable: subtable})
}

// --- Kerning -----------------------------------------------------------------

// KernPair is one (left, right) -> adjustment entry for a format-0 kern
// sub-table.
type KernPair struct {
	Left, Right uint16
	Value       int16
}

// kernPairs encodes a format-0 kern sub-table body (directory plus pair
// list), sorted by the combined left|right key. The header is added by
// KernMS or KernApple, which differ in layout.
func kernPairs(pairs []KernPair) []byte {
	sorted := make([]KernPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		a := uint32(sorted[i].Left)<<16 | uint32(sorted[i].Right)
		b := uint32(sorted[j].Left)<<16 | uint32(sorted[j].Right)
		return a < b
	})
	n := len(sorted)
	entrySelector := 0
	if n > 0 {
		entrySelector = bits.Len(uint(n)) - 1
	}
	searchRange := (1 << entrySelector) * 6
	buf := &bytes.Buffer{}
	be(buf, uint16(n))
	be(buf, uint16(searchRange))
	be(buf, uint16(entrySelector))
	be(buf, uint16(n*6-searchRange))
	for _, p := range sorted {
		be(buf, p.Left)
		be(buf, p.Right)
		be(buf, p.Value)
	}
	return buf.Bytes()
}

// KernMS encodes a 'kern' table in the Microsoft flavour (uint16 version
// and table count, 6-byte sub-table headers), holding one horizontal
// format-0 sub-table per pair list.
func KernMS(subtables ...[]KernPair) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint16(0)) // version
	be(buf, uint16(len(subtables)))
	for _, pairs := range subtables {
		body := kernPairs(pairs)
		be(buf, uint16(0)) // sub-table version
		be(buf, uint16(6+len(body)))
		be(buf, uint16(0x0001)) // coverage: horizontal, format 0
		buf.Write(body)
	}
	return buf.Bytes()
}

// KernApple encodes a 'kern' table in the Apple TTF flavour (uint32
// version 1.0, uint32 table count, 8-byte sub-table headers).
func KernApple(subtables ...[]KernPair) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint32(0x00010000))
	be(buf, uint32(len(subtables)))
	for _, pairs := range subtables {
		body := kernPairs(pairs)
		be(buf, uint32(8+len(body)))
		be(buf, uint16(0x0001)) // coverage: horizontal, format 0
		be(buf, uint16(0))      // tupleIndex
		buf.Write(body)
	}
	return buf.Bytes()
}

// KernMSUnsupported encodes an MS-flavour sub-table announcing the given
// (unsupported) format in the coverage high byte, with nothing but padding
// for a body. Length stays correct so a decoder can skip over it.
func KernMSUnsupported(format uint8, bodyLen int) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint16(0)) // sub-table version
	be(buf, uint16(6+bodyLen))
	be(buf, uint16(0x0001)|uint16(format)<<8)
	buf.Write(make([]byte, bodyLen))
	return buf.Bytes()
}

// KernMSRaw wraps pre-encoded sub-tables with an MS-flavour header.
func KernMSRaw(subtables ...[]byte) []byte {
	buf := &bytes.Buffer{}
	be(buf, uint16(0))
	be(buf, uint16(len(subtables)))
	for _, st := range subtables {
		buf.Write(st)
	}
	return buf.Bytes()
}

// KernMSSubtable encodes one MS-flavour format-0 sub-table, for use with
// KernMSRaw.
func KernMSSubtable(pairs []KernPair) []byte {
	body := kernPairs(pairs)
	buf := &bytes.Buffer{}
	be(buf, uint16(0))
	be(buf, uint16(6+len(body)))
	be(buf, uint16(0x0001))
	buf.Write(body)
	return buf.Bytes()
}

// --- Ready-made fonts ----------------------------------------------------------

// Options select the variations of the ready-made test font.
type Options struct {
	LongLoca      bool // use loca long format (head.indexToLocFormat = 1)
	CompressFlags bool // collapse glyph flag runs with the repeat bit
	AppleKern     bool // Apple flavour kern header instead of MS
	NoKern        bool // omit the kern table
	CMap12        bool // add a format-12 sub-table alongside format 4
}

// TriangleSquare builds a complete font with three glyphs: .notdef
// (empty), a triangle mapped to 'A' (glyph 1), and a square mapped to 'B'
// (glyph 2), kerned as pair (1,2) -> -40.
func TriangleSquare(opt Options) []byte {
	fb := Base(opt)
	if !opt.NoKern {
		pairs := []KernPair{{Left: 1, Right: 2, Value: -40}}
		if opt.AppleKern {
			fb.AddTable("kern", KernApple(pairs))
		} else {
			fb.AddTable("kern", KernMS(pairs))
		}
	}
	return fb.Build()
}

// Base returns a Builder preloaded with the five required tables of the
// TriangleSquare font, so that tests can override single tables before
// building.
func Base(opt Options) *Builder {
	triangle := Glyph([][]Point{{
		{X: 0, Y: 0, OnCurve: true},
		{X: 500, Y: 800, OnCurve: true},
		{X: 1000, Y: 0, OnCurve: true},
	}}, opt.CompressFlags)
	square := Glyph([][]Point{{
		{X: 100, Y: 100, OnCurve: true},
		{X: 100, Y: 900, OnCurve: true},
		{X: 900, Y: 900, OnCurve: true},
		{X: 900, Y: 100, OnCurve: true},
	}}, opt.CompressFlags)
	glyf, offsets := Glyf(nil, triangle, square)

	indexToLocFormat := uint16(0)
	loca := LocaShort(offsets)
	if opt.LongLoca {
		indexToLocFormat = 1
		loca = LocaLong(offsets)
	}

	cmap4 := CMapFormat4([]Segment{
		{Start: 'A', End: 'B', Delta: int16(1 - 'A')},
	}, 0)
	var cmap []byte
	if opt.CMap12 {
		cmap = CMap(
			EncodingRecord{PlatformID: 3, EncodingID: 1, Subtable: cmap4},
			EncodingRecord{PlatformID: 3, EncodingID: 10, Subtable: CMapFormat12([]Group{
				{StartCode: 'A', EndCode: 'B', StartGlyph: 1},
				{StartCode: 0x1F600, EndCode: 0x1F600, StartGlyph: 2},
			})},
		)
	} else {
		cmap = WinCMap(cmap4)
	}

	return New().
		AddTable("head", Head(1000, indexToLocFormat)).
		AddTable("maxp", MaxP(3)).
		AddTable("loca", loca).
		AddTable("glyf", glyf).
		AddTable("cmap", cmap)
}
