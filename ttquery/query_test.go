package ttquery

import (
	"testing"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/truetype/internal/testfont"
	"github.com/npillmayer/truetype/tt"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type QueryTestEnviron struct {
	suite.Suite
	otf *tt.Font
}

// listen for 'go test' command --> run test methods
func TestQueryFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "truetype.query")
	defer teardown()
	suite.Run(t, new(QueryTestEnviron))
}

// run once, before test suite methods
func (env *QueryTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("truetype.query").SetTraceLevel(tracing.LevelError)
	otf, err := tt.Parse(testfont.TriangleSquare(testfont.Options{}))
	env.Require().NoError(err)
	env.otf = otf
	tracing.Select("truetype.query").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *QueryTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *QueryTestEnviron) TestGlyphIndex() {
	env.Equal(tt.GlyphIndex(1), GlyphIndex(env.otf, 'A'))
	env.Equal(tt.GlyphIndex(2), GlyphIndex(env.otf, 'B'))
	env.Equal(tt.GlyphIndex(0), GlyphIndex(env.otf, 'Z'), "uncovered code-point maps to .notdef")
}

func (env *QueryTestEnviron) TestCodePointForGlyph() {
	env.Equal('A', CodePointForGlyph(env.otf, 1))
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0))
	env.Equal(rune(0), CodePointForGlyph(env.otf, 99))
}

func (env *QueryTestEnviron) TestCodePointMap() {
	m := CodePointMap(env.otf)
	env.Len(m, 2)
	env.Equal(tt.GlyphIndex(1), m['A'])
}

func (env *QueryTestEnviron) TestOutline() {
	contours, ok := Outline(env.otf, 1)
	env.True(ok)
	env.Require().NotNil(contours)
	env.Equal(3, contours.NPoints())
	//
	contours, ok = Outline(env.otf, 0) // .notdef has no body
	env.True(ok)
	env.Nil(contours)
	//
	_, ok = Outline(env.otf, 99)
	env.False(ok)
}

func (env *QueryTestEnviron) TestKerning() {
	d, ok := Kerning(env.otf, 1, 2)
	env.True(ok)
	env.Equal(int16(-40), d)
	//
	_, ok = Kerning(env.otf, 2, 1)
	env.False(ok, "kerning pairs are ordered")
	//
	d, ok = KerningForChars(env.otf, 'A', 'B')
	env.True(ok)
	env.Equal(int16(-40), d)
	_, ok = KerningForChars(env.otf, 'A', 'Z')
	env.False(ok)
}

func (env *QueryTestEnviron) TestKerningWithoutKernTable() {
	otf, err := tt.Parse(testfont.TriangleSquare(testfont.Options{NoKern: true}))
	env.Require().NoError(err)
	_, ok := Kerning(otf, 1, 2)
	env.False(ok)
}

func (env *QueryTestEnviron) TestCoverageTable() {
	table := CoverageTable(env.otf)
	env.True(unicode.Is(table, 'A'))
	env.True(unicode.Is(table, 'B'))
	env.False(unicode.Is(table, 'C'))
}

func (env *QueryTestEnviron) TestFontMetrics() {
	metrics := FontMetrics(env.otf)
	env.EqualValues(1000, metrics.UnitsPerEm)
	env.Equal(3, metrics.NumGlyphs)
	env.EqualValues(0, metrics.BBox.MinX)
	env.EqualValues(1000, metrics.BBox.MaxX)
	env.EqualValues(900, metrics.BBox.MaxY)
}

func (env *QueryTestEnviron) TestGlyphMetrics() {
	metrics := GlyphMetrics(env.otf, 2)
	env.Equal(1, metrics.NContours)
	env.Equal(4, metrics.NPoints)
	env.EqualValues(800, metrics.BBox.Dx())
	env.EqualValues(800, metrics.BBox.Dy())
	//
	metrics = GlyphMetrics(env.otf, 0)
	env.True(metrics.BBox.IsEmpty())
}
