package tt

import "fmt"

// TrueType and OpenType slightly differ on formats of kern tables:
// see https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6kern.html
// and https://docs.microsoft.com/en-us/typography/opentype/spec/kern
//
// We currently only support kern sub-table format 0, which should be
// supported on any platform. In the real world, fonts usually have just one
// kern sub-table, and older Windows versions cannot handle more than one.

// KernTable holds the pair-kerning information of a font. Absence of a
// kern table is not an error; Font.Kern is simply nil then.
type KernTable struct {
	tableBase
	Version   uint16
	subtables []KernSubtable
}

// KernPair is the decoding key for one kerning pair. Left and right are
// glyph indices, not character codes, per sub-format 0 semantics. The pair
// is ordered: (a,b) and (b,a) are distinct entries.
type KernPair struct {
	Left  GlyphIndex
	Right GlyphIndex
}

// KernSubtable is one decoded format-0 kerning block.
type KernSubtable struct {
	Version  uint16
	Length   uint32
	Coverage CoverageFlags
	// binary-search support carried through from the sub-table header:
	// nPairs, searchRange, entrySelector, rangeShift. A linear decode does
	// not need them, but they are kept for fidelity.
	directory [4]uint16
	pairs     map[KernPair]int16
}

// NPairs returns the declared number of kerning pairs of this sub-table.
func (st KernSubtable) NPairs() int {
	return int(st.directory[0])
}

// Adjust returns the kerning adjustment for a glyph pair, in font units.
func (st KernSubtable) Adjust(left, right GlyphIndex) (int16, bool) {
	d, ok := st.pairs[KernPair{Left: left, Right: right}]
	return d, ok
}

// CoverageFlags is the decoded coverage bit-field of a kern sub-table
// header, describing orientation and interpretation of the kerning values
// plus the sub-format selector.
type CoverageFlags struct {
	Horizontal  bool  // bit 0: values apply to horizontal text
	Minimum     bool  // bit 1: values are minimum values, not adjustments
	CrossStream bool  // bit 2: values are perpendicular to the text flow
	Override    bool  // bit 3: values replace accumulated values
	Reserved    uint8 // bits 4–7, must be zero
	Format      uint8 // sub-format selector; only 0 is supported
}

// coverageFlags decodes the 16-bit coverage field. The format selector is
// taken from the high byte of the full 16-bit value; taking it from the
// already-masked low byte would always yield zero and silently accept
// sub-tables of any format.
func coverageFlags(cov uint16) CoverageFlags {
	low := uint8(cov & 0xff)
	return CoverageFlags{
		Horizontal:  low&0x01 != 0,
		Minimum:     low&0x02 != 0,
		CrossStream: low&0x04 != 0,
		Override:    low&0x08 != 0,
		Reserved:    low >> 4,
		Format:      uint8(cov >> 8),
	}
}

// NSubtables returns the number of decoded kern sub-tables.
func (t *KernTable) NSubtables() int {
	if t == nil {
		return 0
	}
	return len(t.subtables)
}

// Subtable returns the i-th decoded kern sub-table.
func (t *KernTable) Subtable(i int) KernSubtable {
	if t == nil || i < 0 || i >= len(t.subtables) {
		return KernSubtable{}
	}
	return t.subtables[i]
}

// Adjust returns the kerning adjustment for a glyph pair, in font units.
// Sub-tables are consulted in order; the first one carrying the pair wins.
func (t *KernTable) Adjust(left, right GlyphIndex) (int16, bool) {
	if t == nil {
		return 0, false
	}
	for _, st := range t.subtables {
		if d, ok := st.Adjust(left, right); ok {
			return d, ok
		}
	}
	return 0, false
}

func newKernTable(tag Tag, b binarySegm, offset, size uint32) *KernTable {
	t := &KernTable{}
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

// parseKern decodes the kern table. There is significant confusion with
// this table concerning format differences between OpenType, TrueType, and
// fonts in the wild; we accept both the MS header (uint16 version, uint16
// nTables, 6-byte sub-table headers) and the Apple TTF header (uint32
// version, uint32 nTables, 8-byte sub-table headers).
//
// A sub-table with an unsupported format is dropped and recorded as an
// error; the sub-table's length field still locates the following
// sub-table, so decoding continues.
func parseKern(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size <= 4 {
		return nil, nil
	}
	var N, suboffset, subheaderlen int
	appleFlavor := u32(b) == 0x00010000
	if appleFlavor {
		tracer().Debugf("font has Apple TTF kern table format")
		n, _ := b.u32(4) // number of kerning tables is uint32
		N, suboffset, subheaderlen = int(n), 8, 8
	} else {
		tracer().Debugf("font has OTF (MS) kern table format")
		n, _ := b.u16(2) // number of kerning tables is uint16
		N, suboffset, subheaderlen = int(n), 4, 6
	}
	tracer().Debugf("kern table has %d sub-table(s)", N)
	if N > MaxKernSubtables {
		ec.addError(tag, "Header", fmt.Sprintf("sub-table count %d exceeds maximum %d", N, MaxKernSubtables), SeverityCritical, offset)
		return nil, errFontFormat("kern sub-table count out of range")
	}
	t := newKernTable(tag, b, offset, size)
	t.Version, _ = b.u16(0)
	for i := 0; i < N; i++ {
		if suboffset+subheaderlen > int(size) { // check for sub-table header size
			ec.addError(tag, "Format", fmt.Sprintf("sub-table %d header exceeds table size", i), SeverityCritical, offset+uint32(suboffset))
			return nil, errFontFormat("kern table format")
		}
		// MS sub-table headers are (version u16, length u16, coverage u16);
		// Apple swaps this around to (length u32, coverage u16, tupleIndex u16).
		st := KernSubtable{}
		var cov uint16
		if appleFlavor {
			st.Length, _ = b.u32(suboffset)
			cov, _ = b.u16(suboffset + 4)
		} else {
			st.Version, _ = b.u16(suboffset)
			length, _ := b.u16(suboffset + 2)
			st.Length = uint32(length)
			cov, _ = b.u16(suboffset + 4)
		}
		st.Coverage = coverageFlags(cov)
		if st.Length < uint32(subheaderlen) || uint32(suboffset)+st.Length > size {
			ec.addError(tag, "Bounds", fmt.Sprintf("sub-table %d exceeds table bounds", i), SeverityCritical, offset+uint32(suboffset))
			return nil, errFontFormat("kern sub-table size exceeds kern table bounds")
		}
		if st.Coverage.Format != 0 {
			tracer().Infof("kern sub-table format %d not supported, dropping sub-table", st.Coverage.Format)
			ec.addError(tag, "SubtableFormat",
				fmt.Sprintf("%v: format %d", ErrUnsupportedKerningFormat, st.Coverage.Format),
				SeverityMajor, offset+uint32(suboffset))
			suboffset += int(st.Length)
			continue
		}
		if err := st.parsePairs(b, suboffset+subheaderlen); err != nil {
			ec.addError(tag, "Pairs", err.Error(), SeverityCritical, offset+uint32(suboffset))
			return nil, err
		}
		tracer().Debugf("kern sub-table %d has %d entries", i, st.NPairs())
		t.subtables = append(t.subtables, st)
		suboffset += int(st.Length)
	}
	tracer().Debugf("table kern has %d decoded sub-table(s)", len(t.subtables))
	return t, nil
}

// parsePairs reads the format-0 pair list, located at `at` within the kern
// table: nPairs, searchRange, entrySelector, rangeShift, then nPairs
// triples of (left glyph, right glyph, int16 adjustment), sorted by the
// combined left|right key.
func (st *KernSubtable) parsePairs(b binarySegm, at int) error {
	dir, err := b.view(at, 8)
	if err != nil {
		return errFontFormat("kern sub-table format 0 header")
	}
	st.directory = [4]uint16{
		u16(dir),
		u16(dir[2:]),
		u16(dir[4:]),
		u16(dir[6:]),
	}
	kerncnt := int(st.directory[0])
	// For some fonts, size calculation of kern sub-tables is off; see
	// https://github.com/fonttools/fonttools/issues/314#issuecomment-118116527
	// Testable with the Calibri font. We trust nPairs, not the length field.
	pairs, err := b.view(at+8, kerncnt*6) // a kern pair is of size 6
	if err != nil {
		return errFontFormat("kern sub-table pairs exceed table bounds")
	}
	st.pairs = make(map[KernPair]int16, kerncnt)
	for i := 0; i < kerncnt; i++ {
		p := pairs[6*i:]
		pair := KernPair{
			Left:  GlyphIndex(u16(p)),
			Right: GlyphIndex(u16(p[2:])),
		}
		st.pairs[pair] = i16(p[4:])
	}
	return nil
}
