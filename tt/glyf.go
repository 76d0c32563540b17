package tt

import "fmt"

// The 'glyf' table holds one record per glyph: a header with the contour
// count and bounding box, followed (for simple glyphs) by contour
// end-point indices, hinting instructions, a run-length encoded flag
// stream, and delta-encoded point coordinates. Records are located via
// the 'loca' table.

// Flags of the simple-glyph flag stream.
const (
	flagOnCurve      = 0x01 // point lies on the curve
	flagXShortVector = 0x02 // x delta is a single byte
	flagYShortVector = 0x04 // y delta is a single byte
	flagRepeat       = 0x08 // next byte is a repeat count for this flag
	flagXSameOrSign  = 0x10 // short x: positive sign; long x: delta is 0
	flagYSameOrSign  = 0x20 // short y: positive sign; long y: delta is 0
)

// GlyfTable holds the decoded glyph outlines of a font. The glyph sequence
// has exactly numGlyphs+1 entries: the directory format reserves one
// trailing sentinel glyph.
type GlyfTable struct {
	tableBase
	glyphs []GlyphRecord
}

// GlyphRecord is one decoded glyph. NContours > 0 marks a simple glyph
// with a decoded Contours body; NContours ≤ 0 marks an empty or composite
// glyph, for which only the bounding box is populated (composite component
// records are not decoded).
type GlyphRecord struct {
	ID        GlyphIndex
	NContours int16
	XMin      int16
	YMin      int16
	XMax      int16
	YMax      int16
	Contours  *ContourData // nil unless NContours > 0
}

// ContourData is the decoded body of a simple glyph.
type ContourData struct {
	// EndIndices holds one point index per contour, non-decreasing; the
	// last entry + 1 equals the point count.
	EndIndices []uint16
	// Instructions are the raw hinting instructions; we do not interpret
	// them.
	Instructions []byte
	// Points are the outline vertices in rendering order around the
	// contours, with reconstructed absolute coordinates.
	Points []ContourPoint
}

// NPoints returns the number of outline points of this glyph body.
func (cd *ContourData) NPoints() int {
	if cd == nil {
		return 0
	}
	return len(cd.Points)
}

// ContourPoint is one outline vertex. Off-curve points serve as quadratic
// Bézier control points.
type ContourPoint struct {
	Flag    byte
	OnCurve bool
	X       int16
	Y       int16
}

func newGlyfTable(tag Tag, b binarySegm, offset, size uint32) *GlyfTable {
	t := &GlyfTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// GlyphCount returns the length of the glyph sequence (numGlyphs + 1).
func (t *GlyfTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return len(t.glyphs)
}

// Glyph returns the decoded record for a glyph id. The sentinel record at
// index numGlyphs is a valid (empty) entry.
func (t *GlyfTable) Glyph(gid GlyphIndex) (GlyphRecord, bool) {
	if t == nil || int(gid) >= len(t.glyphs) {
		return GlyphRecord{}, false
	}
	return t.glyphs[gid], true
}

// parseGlyphs decodes all glyph records. It runs last in the decode
// pipeline, as it consumes head.IndexToLocFormat (through the prepared
// loca table) and maxp.NumGlyphs.
func (t *GlyfTable) parseGlyphs(loca *LocaTable, numGlyphs int, ec *errorCollector) error {
	if numGlyphs < 0 || numGlyphs >= MaxGlyphCount {
		ec.addError(t.name, "GlyphCount", fmt.Sprintf("glyph count %d out of range", numGlyphs), SeverityCritical, t.offset)
		return errFontFormat("glyph count out of range")
	}
	t.glyphs = make([]GlyphRecord, numGlyphs+1)
	for gid := 0; gid <= numGlyphs; gid++ {
		start := loca.IndexToLocation(GlyphIndex(gid))
		end := uint32(len(t.data))
		if gid < numGlyphs {
			end = loca.IndexToLocation(GlyphIndex(gid + 1))
		}
		rec := GlyphRecord{ID: GlyphIndex(gid)}
		if end <= start {
			// glyphs without an extent (spaces, the trailing sentinel)
			// carry no header at all
			t.glyphs[gid] = rec
			continue
		}
		seg, err := t.data.view(int(start), int(end-start))
		if err != nil {
			ec.addError(t.name, "Bounds", fmt.Sprintf("glyph %d extent [%d:%d] exceeds glyf table size %d", gid, start, end, len(t.data)), SeverityCritical, t.offset+start)
			return errFontFormat("glyph extent exceeds glyf table bounds")
		}
		if err := rec.parse(seg); err != nil {
			ec.addError(t.name, "Glyph", fmt.Sprintf("glyph %d: %v", gid, err), SeverityCritical, t.offset+start)
			return err
		}
		t.glyphs[gid] = rec
	}
	tracer().Debugf("decoded %d glyph records", len(t.glyphs))
	return nil
}

// parse decodes a glyph record from its byte segment: a 10-byte header,
// then, for simple glyphs, the contour body.
func (rec *GlyphRecord) parse(b binarySegm) error {
	header, err := b.view(0, 10)
	if err != nil {
		return errFontFormat("glyph header truncated")
	}
	rec.NContours = i16(header)
	rec.XMin = i16(header[2:])
	rec.YMin = i16(header[4:])
	rec.XMax = i16(header[6:])
	rec.YMax = i16(header[8:])
	if rec.NContours <= 0 {
		// composite or empty glyph: component records are not decoded
		return nil
	}
	contours, err := parseContourData(b, int(rec.NContours))
	if err != nil {
		return err
	}
	rec.Contours = contours
	return nil
}

// parseContourData decodes the simple-glyph body following the 10-byte
// header: end-point indices, instructions, flag runs, and the X and Y
// delta streams.
func parseContourData(b binarySegm, nContours int) (*ContourData, error) {
	cd := &ContourData{}
	offset := 10 // local running offset, directly after the glyph header
	cd.EndIndices = make([]uint16, nContours)
	prev := uint16(0)
	for i := 0; i < nContours; i++ {
		e, err := b.u16(offset)
		if err != nil {
			return nil, errFontFormat("glyph contour end-indices truncated")
		}
		if e < prev {
			return nil, errFontFormat("glyph contour end-indices not ascending")
		}
		cd.EndIndices[i] = e
		prev = e
		offset += 2
	}
	nPoints := int(cd.EndIndices[nContours-1]) + 1

	instrLen, err := b.u16(offset)
	if err != nil {
		return nil, errFontFormat("glyph instruction length truncated")
	}
	offset += 2
	if instrLen > 0 {
		instr, err := b.view(offset, int(instrLen))
		if err != nil {
			return nil, errFontFormat("glyph instructions truncated")
		}
		cd.Instructions = instr
		offset += int(instrLen)
	}

	// Flag stream: one flag per point, but a flag with the repeat bit set
	// consumes one extra byte holding a repeat count, producing that many
	// additional copies. The loop is therefore driven by the produced flag
	// count, not by bytes consumed.
	flags := make([]byte, 0, nPoints)
	for len(flags) < nPoints {
		flag, err := b.u8(offset)
		if err != nil {
			return nil, errFontFormat("glyph flag stream truncated")
		}
		offset++
		flags = append(flags, flag)
		if flag&flagRepeat != 0 {
			repeat, err := b.u8(offset)
			if err != nil {
				return nil, errFontFormat("glyph flag repeat count truncated")
			}
			offset++
			for r := 0; r < int(repeat) && len(flags) < nPoints; r++ {
				flags = append(flags, flag)
			}
		}
	}

	// Coordinates are stored as deltas against a running absolute value,
	// all X deltas first, the Y stream continuing immediately after.
	xs := make([]int16, nPoints)
	offset, err = decodeDeltas(b, offset, flags, xs, flagXShortVector, flagXSameOrSign)
	if err != nil {
		return nil, err
	}
	ys := make([]int16, nPoints)
	if _, err = decodeDeltas(b, offset, flags, ys, flagYShortVector, flagYSameOrSign); err != nil {
		return nil, err
	}

	cd.Points = make([]ContourPoint, nPoints)
	for i := 0; i < nPoints; i++ {
		cd.Points[i] = ContourPoint{
			Flag:    flags[i],
			OnCurve: flags[i]&flagOnCurve != 0,
			X:       xs[i],
			Y:       ys[i],
		}
	}
	return cd, nil
}

// decodeDeltas reconstructs one absolute coordinate stream (X or Y) and
// returns the offset directly after it. With the short-vector bit set the
// delta is a single unsigned byte whose sign comes from the same/sign bit
// (set = positive); otherwise the same/sign bit marks an unchanged
// coordinate (delta 0), and a cleared bit a signed 16-bit delta.
func decodeDeltas(b binarySegm, offset int, flags []byte, out []int16, shortbit, samebit byte) (int, error) {
	v := int16(0)
	for i, flag := range flags {
		switch {
		case flag&shortbit != 0:
			d, err := b.u8(offset)
			if err != nil {
				return offset, errFontFormat("glyph coordinate stream truncated")
			}
			offset++
			if flag&samebit != 0 {
				v += int16(d)
			} else {
				v -= int16(d)
			}
		case flag&samebit == 0:
			d, err := b.i16(offset)
			if err != nil {
				return offset, errFontFormat("glyph coordinate stream truncated")
			}
			offset += 2
			v += d
		default:
			// same/sign bit set without short form: coordinate unchanged
		}
		out[i] = v
	}
	return offset, nil
}
