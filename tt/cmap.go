package tt

import "fmt"

// This table defines the mapping of character codes to glyph indices.
// Different sub-tables may be defined that each contain mappings for
// different character encoding schemes.
//
// From the spec.: “Apart from a format 14 subtable, all other subtables are
// exclusive: applications should select and use one and ignore the others.”
// We nevertheless decode every usable sub-table into one association, as
// 32-bit sub-tables (format 12) are supersets of their 16-bit siblings
// (format 4) and later entries simply re-record the same pairs.
//
// We only support the following platform/encoding combinations, all of
// them Windows-platform Unicode variants:
//
//	3 (Win)   0    Symbol
//	3 (Win)   1    Unicode BMP (UCS-2)
//	3 (Win)   10   Unicode full (UCS-4)

// CMapTable holds the decoded character map of a font.
type CMapTable struct {
	tableBase
	GlyphMap GlyphCharacterMap
}

// GlyphCharacterMap associates glyph identifiers with the character code
// they render. Note the direction: keys are glyph indices, values are code
// points. Clients needing the conventional character→glyph direction have
// to invert, see package ttquery.
type GlyphCharacterMap map[GlyphIndex]rune

// CodePoint returns the character code a glyph renders, if the glyph is
// reachable through the font's character map.
func (m GlyphCharacterMap) CodePoint(gid GlyphIndex) (rune, bool) {
	r, ok := m[gid]
	return r, ok
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.GlyphMap = GlyphCharacterMap{}
	t.self = t
	return t
}

// supportedCMapRecord decides which encoding records we will decode.
func supportedCMapRecord(platformID, encodingID uint16) bool {
	if platformID != 3 {
		return false
	}
	return encodingID == 0 || encodingID == 1 || encodingID == 10
}

func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	n, _ := b.u16(2) // number of encoding records
	tracer().Debugf("font cmap has %d encoding record(s) in %d|%d bytes", n, len(b), size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8
	if int(n) > MaxCMapSubtables {
		ec.addError(tag, "Header", fmt.Sprintf("encoding record count %d exceeds maximum %d", n, MaxCMapSubtables), SeverityCritical, offset)
		return nil, errFontFormat("cmap encoding record count out of range")
	}
	if size < uint32(headerSize+entrySize*int(n)) {
		ec.addError(tag, "Header", fmt.Sprintf("table size %d too small for %d records", size, n), SeverityCritical, offset)
		return nil, errFontFormat("size of cmap table")
	}
	decoded := 0
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		if !supportedCMapRecord(pid, psid) {
			tracer().Infof("cmap sub-table for platform %d|%d will not be interpreted", pid, psid)
			continue
		}
		// sub-table offsets are relative to the start of the cmap table
		suboffset := u32(rec[4:])
		sub, err := b.view(int(suboffset), len(b)-int(suboffset))
		if err != nil {
			ec.addError(tag, "EncodingRecord", fmt.Sprintf("sub-table %d (platform=%d, encoding=%d) out of bounds", i, pid, psid), SeverityCritical, offset)
			return nil, errFontFormat("cmap sub-table out of bounds")
		}
		format, err := sub.u16(0)
		if err != nil {
			ec.addError(tag, "EncodingRecord", fmt.Sprintf("sub-table %d truncated", i), SeverityCritical, offset+suboffset)
			return nil, errFontFormat("cmap sub-table truncated")
		}
		tracer().Debugf("cmap table contains sub-table with format %d", format)
		switch format {
		case 4:
			if err := parseCMapFormat4(t.GlyphMap, sub); err != nil {
				ec.addError(tag, "Format4", err.Error(), SeverityMajor, offset+suboffset)
				continue
			}
			decoded++
		case 12:
			if err := parseCMapFormat12(t.GlyphMap, sub); err != nil {
				ec.addError(tag, "Format12", err.Error(), SeverityMajor, offset+suboffset)
				continue
			}
			decoded++
		default:
			tracer().Infof("cmap sub-table format %d not supported, ignoring sub-table", format)
			ec.addWarning(tag, fmt.Sprintf("sub-table format %d not supported", format), offset+suboffset)
		}
	}
	if decoded == 0 {
		// Not fatal: the font's other tables stay usable, but character
		// lookups will come up empty. Clients check Font.Errors().
		tracer().Errorf("no usable cmap sub-table found")
		ec.addError(tag, "Format", ErrUnsupportedFont.Error(), SeverityMajor, offset)
	}
	return t, nil
}

// --- Format 4: segment mapping to delta values -------------------------------

// Format 4 is the standard sub-table for fonts supporting only Unicode BMP
// characters. The mapping is organized in segments of contiguous character
// codes sharing one glyph-index derivation rule, held in four parallel
// arrays (endCode, startCode, idDelta, idRangeOffset).
func parseCMapFormat4(m GlyphCharacterMap, b binarySegm) error {
	segCountX2, err := b.u16(6)
	if err != nil || segCountX2%2 != 0 {
		return ErrMalformedCMap
	}
	segCount := int(segCountX2) / 2
	// header (14 bytes) + endCode + reservedPad + startCode + idDelta + idRangeOffset
	arrays, err := b.view(14, 2+4*int(segCountX2))
	if err != nil {
		return ErrMalformedCMap
	}
	endCodes := arrays[:segCountX2]
	reservedPad := u16(arrays[segCountX2:])
	startCodes := arrays[segCountX2+2:]
	idDeltas := arrays[2*segCountX2+2:]
	idRangeOffsets := arrays[3*segCountX2+2:]
	// reservedPad is required to be 0; fonts in the wild get this wrong
	// when the mandatory final segment 0xFFFF is present, so only a
	// non-zero pad without that sentinel counts as malformed.
	if segCount == 0 {
		return ErrMalformedCMap
	}
	lastEndCode := u16(endCodes[2*(segCount-1):])
	if reservedPad != 0 && lastEndCode != 0xFFFF {
		return ErrMalformedCMap
	}
	tracer().Debugf("cmap format 4 sub-table has %d segments", segCount)
	for i := 0; i < segCount; i++ {
		start := int(u16(startCodes[2*i:]))
		end := int(u16(endCodes[2*i:]))
		if start > end {
			return ErrMalformedCMap
		}
		delta := int(i16(idDeltas[2*i:]))
		rangeOffset := int(u16(idRangeOffsets[2*i:]))
		for c := start; c <= end; c++ {
			if c == 0xFFFF {
				// sentinel segment end; 0xFFFF is not a character
				break
			}
			var gid uint16
			if rangeOffset == 0 {
				gid = uint16(c + delta)
			} else {
				// The glyph index sits at an address relative to the
				// storage location of idRangeOffset[i] itself:
				//   &idRangeOffset[i] + idRangeOffset[i] + 2*(c - start)
				// This arithmetic is not symmetric and must be kept
				// bit-for-bit.
				loc := 14 + 2 + 3*int(segCountX2) + 2*i // address of idRangeOffset[i] within b
				indirect, err := b.u16(loc + rangeOffset + 2*(c-start))
				if err != nil {
					return ErrMalformedCMap
				}
				if indirect == 0 {
					continue // missing character stays unmapped
				}
				gid = uint16(int(indirect) + delta)
			}
			if gid != 0 {
				m[GlyphIndex(gid)] = rune(c)
			}
		}
	}
	return nil
}

// --- Format 12: segmented coverage -------------------------------------------

// Format 12 is the standard sub-table for fonts supporting Unicode
// characters beyond the BMP. It holds groups of contiguous character codes
// mapped to linearly incrementing glyph ids.
func parseCMapFormat12(m GlyphCharacterMap, b binarySegm) error {
	numGroups, err := b.u32(12)
	if err != nil {
		return ErrMalformedCMap
	}
	groups, err := b.view(16, 12*int(numGroups))
	if err != nil {
		return ErrMalformedCMap
	}
	tracer().Debugf("cmap format 12 sub-table has %d group(s)", numGroups)
	for i := 0; i < int(numGroups); i++ {
		g := groups[12*i:]
		startCode := u32(g)
		endCode := u32(g[4:])
		startGlyph := u32(g[8:])
		if startCode > endCode {
			return ErrMalformedCMap
		}
		for c := startCode; c <= endCode; c++ {
			gid := GlyphIndex(startGlyph + (c - startCode))
			if gid != 0 {
				m[gid] = rune(c)
			}
			if c == 0xFFFFFFFF {
				break
			}
		}
	}
	return nil
}
