/*
Package tt decodes the binary container format of TrueType fonts.

A TrueType font file is an sfnt container: a table directory followed by
tagged tables. Package `tt` walks the directory and decodes the tables
needed to get, per character code, a glyph outline (quadratic-curve
contours) and spacing adjustments relative to neighboring glyphs:

▪︎ 'head' and 'maxp' for global scaling and the glyph count

▪︎ 'cmap' for the character-to-glyph association (sub-formats 4 and 12)

▪︎ 'kern' for pair kerning (sub-format 0)

▪︎ 'loca' and 'glyf' for glyph bounding boxes and contour points

Tables which `tt` does not interpret are still enumerated and exposed as
generic tables, i.e. no table information will be dropped. Intended
audience for this package are text shapers and glyph rasterizers; package
`tt` itself will not rasterize, flatten curves, or shape text.

Composite glyphs (glyphs defined as transformed references to other
glyphs) are not decoded; only their headers (id and bounding box) are
made available.

# Status

Work in progress. Handling fonts is fiddly and font files are a vast
desert of bytes without any sign posts. No font collections nor variable
fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package tt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.truetype'
func tracer() tracing.Trace {
	return tracing.Select("font.truetype")
}
