/*
Package truetype handles TrueType fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package truetype

import (
	"os"

	"github.com/npillmayer/truetype/tt"
)

// FromBinary parses raw TrueType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream with
// TrueType outlines. It must not change after parsing for the font to be
// usable.
func FromBinary(data []byte) (*tt.Font, error) {
	return tt.Parse(data)
}

// FromFile reads a font file and returns a decoded font.
func FromFile(path string) (*tt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	otf, err := tt.Parse(data)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded font with %d tables from %s", len(otf.TableTags()), path)
	return otf, nil
}
