/*
Package ttquery provides query functions on decoded TrueType fonts.

The decoder in package tt keeps tables close to their binary form; this
package answers the questions clients typically ask: which glyph renders a
character, what outline does a glyph have, how is a glyph pair kerned,
which code points does the font cover.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttquery

import (
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/truetype/tt"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/rangetable"
)

// tracer writes to trace with key 'truetype.query'
func tracer() tracing.Trace {
	return tracing.Select("truetype.query")
}

// GlyphIndex returns the glyph index for a given code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to
// any glyph in the font should be mapped to glyph index 0. The glyph at this
// location must be a special glyph representing a missing character,
// commonly known as '.notdef'.
//
// This is an inefficient operation: the font's character map associates
// glyphs with code-points, so all entries are checked sequentially for one
// producing the given code-point. Clients doing bulk lookups should build an
// inverted map once, see CodePointMap.
func GlyphIndex(otf *tt.Font, codepoint rune) tt.GlyphIndex {
	if otf == nil || otf.CMap == nil {
		return 0
	}
	for gid, r := range otf.CMap.GlyphMap {
		if r == codepoint {
			return gid
		}
	}
	tracer().Debugf("code-point %#U not covered by font", codepoint)
	return 0
}

// CodePointForGlyph returns the code-point for a given glyph index.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *tt.Font, gid tt.GlyphIndex) rune {
	if otf == nil || otf.CMap == nil || gid == 0 {
		return 0
	}
	r, ok := otf.CMap.GlyphMap.CodePoint(gid)
	if !ok {
		return 0
	}
	return r
}

// CodePointMap returns the conventional character-to-glyph view of the
// font's character map, inverted once for repeated lookups.
func CodePointMap(otf *tt.Font) map[rune]tt.GlyphIndex {
	if otf == nil || otf.CMap == nil {
		return nil
	}
	m := make(map[rune]tt.GlyphIndex, len(otf.CMap.GlyphMap))
	for gid, r := range otf.CMap.GlyphMap {
		m[r] = gid
	}
	return m
}

// Outline returns the decoded contours of a glyph. ok is false if the glyph
// id is out of range; a glyph without a body (empty or composite) returns
// (nil, true).
func Outline(otf *tt.Font, gid tt.GlyphIndex) (*tt.ContourData, bool) {
	if otf == nil || otf.Glyf == nil {
		return nil, false
	}
	rec, ok := otf.Glyf.Glyph(gid)
	if !ok {
		return nil, false
	}
	return rec.Contours, true
}

// Kerning returns the kerning adjustment for a glyph pair, in font units.
// Fonts without a kern table kern nothing.
func Kerning(otf *tt.Font, left, right tt.GlyphIndex) (int16, bool) {
	if otf == nil {
		return 0, false
	}
	return otf.Kern.Adjust(left, right)
}

// KerningForChars returns the kerning adjustment for a pair of characters,
// going through the character map for both.
func KerningForChars(otf *tt.Font, left, right rune) (int16, bool) {
	l, r := GlyphIndex(otf, left), GlyphIndex(otf, right)
	if l == 0 || r == 0 {
		return 0, false
	}
	return Kerning(otf, l, r)
}

// CoverageTable returns the set of code-points covered by the font's
// character map as a Unicode range table.
func CoverageTable(otf *tt.Font) *unicode.RangeTable {
	if otf == nil || otf.CMap == nil {
		return rangetable.New()
	}
	runes := make([]rune, 0, len(otf.CMap.GlyphMap))
	for _, r := range otf.CMap.GlyphMap {
		runes = append(runes, r)
	}
	return rangetable.New(runes...)
}

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *tt.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if table := otf.Table(tt.T("head")); table != nil {
		if head := table.Self().AsHead(); head != nil {
			metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
		}
	}
	metrics.NumGlyphs = otf.NumGlyphs()
	if otf.Glyf == nil {
		return metrics
	}
	for gid := 0; gid < metrics.NumGlyphs; gid++ {
		g, ok := otf.Glyf.Glyph(tt.GlyphIndex(gid))
		if !ok {
			continue
		}
		metrics.BBox = metrics.BBox.union(glyphBBox(g))
	}
	return metrics
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *tt.Font, gid tt.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf == nil || otf.Glyf == nil {
		return metrics
	}
	rec, ok := otf.Glyf.Glyph(gid)
	if !ok {
		return metrics
	}
	metrics.BBox = glyphBBox(rec)
	if rec.NContours > 0 {
		metrics.NContours = int(rec.NContours)
		metrics.NPoints = rec.Contours.NPoints()
	}
	return metrics
}

func glyphBBox(rec tt.GlyphRecord) BoundingBox {
	return BoundingBox{
		MinX: sfnt.Units(rec.XMin),
		MinY: sfnt.Units(rec.YMin),
		MaxX: sfnt.Units(rec.XMax),
		MaxY: sfnt.Units(rec.YMax),
	}
}
