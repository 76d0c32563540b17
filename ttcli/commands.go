package main

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/npillmayer/truetype/tt"
	"github.com/npillmayer/truetype/ttquery"
	"github.com/pterm/pterm"
)

var errNoFont = errors.New("no font loaded")

func quitOp(intp *Intp, args []string) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func helpOp(intp *Intp, args []string) (error, bool) {
	pterm.Info.Println("Commands")
	pterm.Println(`
	tables          list the font's tables with offsets and sizes
	head            show font header values and glyph count
	glyph <id>      show the outline of a glyph
	char <c>        show which glyph renders a character
	kern <l> <r>    show the kerning adjustment for a glyph pair
	coverage        show the code-point ranges covered by the font
	quit            leave the CLI
	`)
	return nil, false
}

func tablesOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	data := [][]string{
		{"Tag", "Offset", "Size"},
	}
	for _, tag := range intp.font.TableTags() {
		off, size := intp.font.Table(tag).Extent()
		data = append(data, []string{
			tag.String(),
			fmt.Sprintf("%d", off),
			fmt.Sprintf("%d", size),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func headOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	head := intp.font.Table(tt.T("head")).Self().AsHead()
	pterm.Printf("magic number:       %#x\n", head.MagicNumber)
	pterm.Printf("flags:              %#016b\n", head.Flags)
	pterm.Printf("units per em:       %d\n", head.UnitsPerEm)
	pterm.Printf("index-to-loc form:  %d\n", head.IndexToLocFormat)
	pterm.Printf("number of glyphs:   %d\n", intp.font.NumGlyphs())
	return nil, false
}

func glyphOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	if len(args) != 1 {
		return errors.New("usage: glyph <id>"), false
	}
	gid, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("not a glyph id: %q", args[0]), false
	}
	rec, ok := intp.font.Glyf.Glyph(tt.GlyphIndex(gid))
	if !ok {
		return fmt.Errorf("font has no glyph %d", gid), false
	}
	if r := ttquery.CodePointForGlyph(intp.font, tt.GlyphIndex(gid)); r != 0 {
		pterm.Printf("glyph %d renders %#U\n", gid, r)
	}
	pterm.Printf("bounding box (%d,%d) - (%d,%d)\n", rec.XMin, rec.YMin, rec.XMax, rec.YMax)
	if rec.Contours == nil {
		pterm.Printf("glyph %d has no outline\n", gid)
		return nil, false
	}
	pterm.Printf("%d contour(s), %d point(s)\n", rec.NContours, rec.Contours.NPoints())
	data := [][]string{
		{"#", "X", "Y", "On curve"},
	}
	for i, p := range rec.Contours.Points {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", p.X),
			fmt.Sprintf("%d", p.Y),
			fmt.Sprintf("%v", p.OnCurve),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func charOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	if len(args) != 1 || utf8.RuneCountInString(args[0]) != 1 {
		return errors.New("usage: char <c>"), false
	}
	r, _ := utf8.DecodeRuneInString(args[0])
	gid := ttquery.GlyphIndex(intp.font, r)
	if gid == 0 {
		pterm.Printf("%#U is not covered by this font (.notdef)\n", r)
		return nil, false
	}
	pterm.Printf("%#U is rendered by glyph %d\n", r, gid)
	metrics := ttquery.GlyphMetrics(intp.font, gid)
	pterm.Printf("glyph has %d contour(s) with %d point(s)\n", metrics.NContours, metrics.NPoints)
	return nil, false
}

func kernOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	if len(args) != 2 {
		return errors.New("usage: kern <left> <right>"), false
	}
	left, err1 := strconv.ParseUint(args[0], 10, 16)
	right, err2 := strconv.ParseUint(args[1], 10, 16)
	if err1 != nil || err2 != nil {
		return errors.New("kern arguments must be glyph ids"), false
	}
	d, ok := ttquery.Kerning(intp.font, tt.GlyphIndex(left), tt.GlyphIndex(right))
	if !ok {
		pterm.Printf("no kerning for pair (%d,%d)\n", left, right)
		return nil, false
	}
	pterm.Printf("pair (%d,%d) kerned by %d font units\n", left, right, d)
	return nil, false
}

func coverageOp(intp *Intp, args []string) (error, bool) {
	if intp.font == nil {
		return errNoFont, false
	}
	table := ttquery.CoverageTable(intp.font)
	data := [][]string{
		{"From", "To", "Stride"},
	}
	for _, r := range table.R16 {
		data = append(data, []string{
			fmt.Sprintf("%#U", rune(r.Lo)),
			fmt.Sprintf("%#U", rune(r.Hi)),
			fmt.Sprintf("%d", r.Stride),
		})
	}
	for _, r := range table.R32 {
		data = append(data, []string{
			fmt.Sprintf("%#U", rune(r.Lo)),
			fmt.Sprintf("%#U", rune(r.Hi)),
			fmt.Sprintf("%d", r.Stride),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}
