package tt

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("ke")
	if tag.String() != "ke  " {
		t.Errorf("expected short tag to be blank-padded, is %q", tag.String())
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
}

func TestTableSelfConversion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	generic := newTable(T("name"), binarySegm{}, 0, 0)
	if generic.Self().AsCMap() != nil {
		t.Error("expected generic table not to convert to cmap table")
	}
	head := newHeadTable(T("head"), binarySegm{}, 0, 0)
	if head.Self().AsHead() == nil {
		t.Error("expected head table to convert to head table")
	}
	if head.Self().AsKern() != nil {
		t.Error("expected head table not to convert to kern table")
	}
}

func TestBinarySegmView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	b := binarySegm{1, 2, 3, 4}
	if _, err := b.view(2, 2); err != nil {
		t.Errorf("expected view within bounds to succeed, got %v", err)
	}
	if _, err := b.view(2, 3); err == nil {
		t.Error("expected view beyond bounds to fail")
	}
	if _, err := b.view(-1, 2); err == nil {
		t.Error("expected view with negative offset to fail")
	}
	if n, err := b.u16(2); err != nil || n != 0x0304 {
		t.Errorf("expected u16 at 2 to be 0x0304, got %x (%v)", n, err)
	}
	if _, err := b.u32(2); err == nil {
		t.Error("expected u32 at 2 to fail on 4-byte buffer")
	}
}
