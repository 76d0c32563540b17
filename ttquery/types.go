package ttquery

import "golang.org/x/image/font/sfnt"

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm sfnt.Units  // ad-hoc units per em
	NumGlyphs  int         // number of glyphs, per table 'maxp'
	BBox       BoundingBox // union of the glyph bounding boxes
}

// GlyphMetricsInfo contains all metric information for a glyph.
type GlyphMetricsInfo struct {
	BBox      BoundingBox // bounding box, from the glyph header
	NContours int         // number of contours; 0 for glyphs without a body
	NPoints   int         // number of outline points
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// IsEmpty reports whether this box has zero area.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx returns the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// union merges another box into this one.
func (bbox BoundingBox) union(other BoundingBox) BoundingBox {
	if other.IsEmpty() {
		return bbox
	}
	if bbox.IsEmpty() {
		return other
	}
	if other.MinX < bbox.MinX {
		bbox.MinX = other.MinX
	}
	if other.MinY < bbox.MinY {
		bbox.MinY = other.MinY
	}
	if other.MaxX > bbox.MaxX {
		bbox.MaxX = other.MaxX
	}
	if other.MaxY > bbox.MaxY {
		bbox.MaxY = other.MaxY
	}
	return bbox
}
