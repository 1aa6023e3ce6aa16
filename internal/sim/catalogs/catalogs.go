package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"crystalsim/configs"
)

// Growth kinds an item can carry. Empty means the item is inert.
const (
	GrowthRawCrystal = "RAW_CRYSTAL"
	GrowthTool       = "CRYSTAL_TOOL"
	GrowthDust       = "CRYSTAL_DUST"
)

type Catalogs struct {
	Blocks BlockCatalog
	Items  ItemCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID          string `json:"id"`
	Solid       bool   `json:"solid"`
	SolidTop    bool   `json:"solid_top,omitempty"` // full upward face
	Breakable   bool   `json:"breakable"`
	Replaceable bool   `json:"replaceable,omitempty"`
	Fluid       string `json:"fluid,omitempty"`
	Source      bool   `json:"source,omitempty"`
	DropsItem   string `json:"drops_item,omitempty"`
}

type ItemCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "BLOCK","TOOL","MATERIAL"
	PlaceAs string `json:"place_as,omitempty"`
	Growth  string `json:"growth,omitempty"`
	Family  string `json:"family,omitempty"`
	MaxSize int    `json:"max_size,omitempty"`
}

// Load reads blocks.json and items.json from configDir.
func Load(configDir string) (*Catalogs, error) {
	return LoadFS(os.DirFS(configDir))
}

// LoadDefault loads the catalogs embedded in the binary.
func LoadDefault() (*Catalogs, error) {
	return LoadFS(configs.FS)
}

func LoadFS(fsys fs.FS) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(fsys, "blocks.json", &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(fsys, "items.json", &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogs) Block(id string) (BlockDef, bool) {
	if c == nil {
		return BlockDef{}, false
	}
	d, ok := c.Blocks.Defs[id]
	return d, ok
}

// BlockByIndex resolves a palette id.
func (c *Catalogs) BlockByIndex(b uint16) (BlockDef, bool) {
	if c == nil || int(b) >= len(c.Blocks.Palette) {
		return BlockDef{}, false
	}
	return c.Block(c.Blocks.Palette[b])
}

func (c *Catalogs) Item(id string) (ItemDef, bool) {
	if c == nil {
		return ItemDef{}, false
	}
	d, ok := c.Items.Defs[id]
	return d, ok
}

func loadBlocks(fsys fs.FS, path string, out *BlockCatalog) error {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ensure AIR exists and is palette id 0.
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{"AIR"}, filterOut(ids, "AIR")...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadItems(fsys fs.FS, path string, out *ItemCatalog) error {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		switch d.Growth {
		case "", GrowthRawCrystal, GrowthTool, GrowthDust:
		default:
			return fmt.Errorf("items.json: %s: unknown growth kind %q", d.ID, d.Growth)
		}
		if (d.Growth == GrowthRawCrystal || d.Growth == GrowthTool) && d.MaxSize <= 0 {
			return fmt.Errorf("items.json: %s: growth item needs max_size", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func filterOut(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
