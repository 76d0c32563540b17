package tt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Code comments often cite passages from the OpenType specification
// version 1.8.4 and from the Apple TrueType Reference Manual;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Maximum reasonable counts for font table structures.
// These limits prevent malicious fonts from claiming unreasonably large
// counts that could lead to excessive memory allocation or out-of-bounds
// reads.
const (
	MaxTableCount    = 512   // top-level tables: typically < 30
	MaxGlyphCount    = 65536 // maximum glyph index (uint16)
	MaxCMapSubtables = 64    // cmap encoding records: typically < 10
	MaxKernSubtables = 64    // kern sub-tables: usually exactly 1
)

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// errFontFormat produces user level errors for font decoding.
func errFontFormat(message string) error {
	return fmt.Errorf("TrueType font format: %s", message)
}

// ---------------------------------------------------------------------------

// Parse decodes a TrueType font from a byte slice.
// A tt.Font needs ongoing access to the font's byte-data after the Parse
// function returns. Its elements are assumed immutable while the tt.Font
// remains in use; Parse itself never writes into the buffer.
//
// Errors scoped to a single kern or cmap sub-table do not abort the
// decode; they are recorded and can be inspected with Font.Errors().
// Structural errors (a truncated buffer, a table extending beyond the
// buffer, a missing required table) abort the decode.
func Parse(font []byte) (*Font, error) {
	// The Offset Table is 12 bytes, followed by numTables records of
	// 16 bytes each.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, err
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())

	// Create error collector for accumulating errors during decoding
	ec := &errorCollector{}

	if !(h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // 'true' (Apple)
		ec.addError(T(""), "Header", fmt.Sprintf("font type not supported: %x", h.FontType), SeverityCritical, 0)
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if int(h.TableCount) > MaxTableCount {
		ec.addError(T(""), "Header", fmt.Sprintf("table count %d exceeds maximum %d", h.TableCount, MaxTableCount), SeverityCritical, 4)
		return nil, errFontFormat("table count out of range")
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	src := binarySegm(font)

	// The Offset Table is followed immediately by the table record entries.
	// Any 4 bytes are accepted as a tag; directory order is trusted, and a
	// duplicate tag overwrites the earlier entry.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		ec.addError(T(""), "TableRecords", "table record entries", SeverityCritical, 12)
		return nil, errFontFormat("table record entries")
	}
	for b := buf; len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		off, size := u32(b[8:12]), u32(b[12:16])

		// Validate table bounds before slicing; offset and length come from
		// the header and must not be trusted.
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			ec.addError(tag, "Size", fmt.Sprintf("size calculation overflow: %v", err), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", tag, err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			ec.addError(tag, "Bounds", fmt.Sprintf("bounds [%d:%d] exceed font size %d", off, tableEnd, len(src)), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, tableEnd, len(src)))
		}

		otf.tables[tag], err = parseTable(tag, src[off:tableEnd], off, size, ec)
		if err != nil {
			return nil, err
		}
	}
	if err := linkTables(otf, ec); err != nil {
		return nil, err
	}

	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings

	return otf, nil
}

// RequiredTables lists the tables a font must carry for a fully decoded
// result. 'kern' is optional and its absence is not an error.
var RequiredTables = []string{
	"cmap", "head", "maxp", "glyf", "loca",
}

// Consistency check and shortcuts to essential tables. Scalar tables run
// first ('head' supplies indexToLocFormat, 'maxp' the glyph count), the
// glyph outline decoder runs last since it consumes both.
func linkTables(otf *Font, ec *errorCollector) error {
	for _, tag := range RequiredTables {
		h := otf.tables[T(tag)]
		if h == nil {
			ec.addError(T(tag), "Missing", "missing required table", SeverityCritical, 0)
			return errFontFormat("missing required table " + tag)
		}
	}
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	otf.Glyf = otf.tables[T("glyf")].Self().AsGlyf()
	if k := otf.tables[T("kern")]; k != nil {
		otf.Kern = k.Self().AsKern()
	}

	head := otf.Table(T("head")).Self().AsHead()
	maxp := otf.Table(T("maxp")).Self().AsMaxP()
	loca := otf.Table(T("loca")).Self().AsLoca()
	if head == nil || maxp == nil || loca == nil {
		ec.addError(T("head"), "Consistency", "required table of unexpected flavour", SeverityCritical, 0)
		return errFontFormat("required table of unexpected flavour")
	}
	if head.IndexToLocFormat > 1 {
		ec.addError(T("head"), "IndexToLocFormat", fmt.Sprintf("invalid value: %d (must be 0 or 1)", head.IndexToLocFormat), SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("invalid head.IndexToLocFormat: %d", head.IndexToLocFormat))
	}
	if head.IndexToLocFormat == 1 {
		loca.inx2loc = longLocaVersion
	}
	// The number of entries in loca is numGlyphs + 1: the extra entry is
	// the sentinel delimiting the last glyph's extent.
	loca.locCnt = maxp.NumGlyphs + 1

	entryWidth := 2
	if head.IndexToLocFormat == 1 {
		entryWidth = 4
	}
	expectedLocaSize, err := checkedMulInt(loca.locCnt, entryWidth)
	if err != nil {
		ec.addError(T("loca"), "Size", fmt.Sprintf("size calculation overflow: %v", err), SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("loca size calculation overflow: %v", err))
	}
	if int(loca.length) < expectedLocaSize {
		ec.addError(T("loca"), "Size",
			fmt.Sprintf("table size (%d) insufficient for %d glyphs (need %d)", loca.length, maxp.NumGlyphs, expectedLocaSize),
			SeverityCritical, 0)
		return errFontFormat(fmt.Sprintf("loca table size (%d) insufficient for %d glyphs (need %d)",
			loca.length, maxp.NumGlyphs, expectedLocaSize))
	}

	return otf.Glyf.parseGlyphs(loca, maxp.NumGlyphs, ec)
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size, ec)
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("glyf"):
		// Glyph bodies can only be decoded once 'head' and 'maxp' are
		// known; see linkTables.
		return newGlyfTable(t, b, offset, size), nil
	case T("kern"):
		return parseKern(t, b, offset, size, ec)
	case T("loca"):
		return parseLoca(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	}
	tracer().Infof("font contains table (%s), will not be interpreted", t)
	// Record as minor warning - not decoded but not a problem
	ec.addWarning(t, "table not interpreted", offset)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.MagicNumber, _ = b.u32(12)
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat, _ = b.u16(50)
	return t, nil
}

// --- Loca table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The size of entries in the 'loca' table must be appropriate for the value
// of the indexToLocFormat field of the 'head' table. The number of entries
// must be the same as the numGlyphs field of the 'maxp' table, plus one.
// The 'loca' table is most intimately dependent upon the contents of the
// 'glyf' table and vice versa.
func parseLoca(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	return newLocaTable(tag, b, offset, size), nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with
// TrueType outlines must use Version 1.0 of this table; we only read the
// numGlyphs field.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size <= 6 {
		return nil, nil
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}
