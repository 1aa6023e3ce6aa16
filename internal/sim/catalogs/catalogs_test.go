package catalogs

import (
	"testing"
	"testing/fstest"
)

func TestLoadDefault(t *testing.T) {
	c, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if c.Blocks.Palette[0] != "AIR" || c.Blocks.Index["AIR"] != 0 {
		t.Fatalf("AIR must be palette id 0: %v", c.Blocks.Palette)
	}
	src, ok := c.Block("CHARGED_WATER")
	if !ok || !src.Source || src.Fluid != "CHARGED_WATER" {
		t.Fatalf("unexpected charged water def: %+v ok=%v", src, ok)
	}
	it, ok := c.Item("RAW_CRYSTAL")
	if !ok || it.Growth != GrowthRawCrystal || it.MaxSize <= 0 {
		t.Fatalf("unexpected raw crystal def: %+v", it)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name   string
		blocks string
		items  string
	}{
		{"missing air", `[{"id":"STONE"}]`, `[]`},
		{"empty block id", `[{"id":"AIR"},{"id":""}]`, `[]`},
		{"unknown growth", `[{"id":"AIR"}]`, `[{"id":"X","growth":"FLOWER"}]`},
		{"growth without max size", `[{"id":"AIR"}]`, `[{"id":"X","growth":"RAW_CRYSTAL"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"blocks.json": {Data: []byte(tc.blocks)},
				"items.json":  {Data: []byte(tc.items)},
			}
			if _, err := LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
