package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Stations that run machine recipes.
const (
	StationFurnace      = "FURNACE"
	StationCokeOven     = "COKE_OVEN"
	StationBlastFurnace = "BLAST_FURNACE"
)

type Catalogs struct {
	Items   ItemCatalog
	Recipes RecipeCatalog
}

type ItemCatalog struct {
	Palette []string
	Defs    map[string]ItemDef
	Digest  string
}

type ItemDef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsMachine     bool   `json:"is_machine,omitempty"`
	IsTool        bool   `json:"is_tool,omitempty"`
	Configurable  bool   `json:"configurable,omitempty"`
	Fuel          int    `json:"fuel,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	MaxDurability int    `json:"max_durability,omitempty"`
}

type RecipeCatalog struct {
	Defs   []RecipeDef // file order
	ByID   map[string]RecipeDef
	Digest string
}

type RecipeDef struct {
	RecipeID  string `json:"recipe_id"`
	Station   string `json:"station"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	TimeTicks int    `json:"time_ticks"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes, &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	return out.set(defs, sha256Hex(raw))
}

func (c *ItemCatalog) set(defs []ItemDef, digest string) error {
	c.Defs = make(map[string]ItemDef, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if d.Fuel < 0 {
			return fmt.Errorf("items.json: %s: negative fuel", d.ID)
		}
		if _, dup := c.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		c.Defs[d.ID] = d
	}
	ids := make([]string, 0, len(c.Defs))
	for id := range c.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.Palette = ids
	c.Digest = digest
	return nil
}

func loadRecipes(path string, out *RecipeCatalog, items *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]RecipeDef{}
	for _, r := range defs {
		if _, dup := out.ByID[r.RecipeID]; dup {
			return fmt.Errorf("recipes.json: duplicate recipe_id %s", r.RecipeID)
		}
		if r.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		if r.TimeTicks <= 0 {
			return fmt.Errorf("recipes.json: %s: time_ticks must be > 0", r.RecipeID)
		}
		for _, id := range []string{r.Input, r.Output} {
			if _, ok := items.Defs[id]; !ok {
				return fmt.Errorf("recipes.json: %s: unknown item %q", r.RecipeID, id)
			}
		}
		out.ByID[r.RecipeID] = r
	}
	out.Defs = defs
	out.Digest = sha256Hex(raw)
	return nil
}

// BuildByInput picks the recipes of one station, keeping their declared
// order. Each input may map to at most one recipe per station.
func BuildByInput(defs []RecipeDef, station string) ([]RecipeDef, error) {
	var out []RecipeDef
	seen := map[string]string{}
	for _, r := range defs {
		if r.Station != station {
			continue
		}
		if prev, dup := seen[r.Input]; dup {
			return nil, fmt.Errorf("%s: input %s used by %s and %s", station, r.Input, prev, r.RecipeID)
		}
		seen[r.Input] = r.RecipeID
		out = append(out, r)
	}
	return out, nil
}

func (c *Catalogs) Item(id string) (ItemDef, bool) {
	d, ok := c.Items.Defs[id]
	return d, ok
}

func (c *Catalogs) FuelValue(id string) int {
	return c.Items.Defs[id].Fuel
}

// Suggest returns the closest known item id to name, or "" when nothing is close.
func (c *Catalogs) Suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best := ""
	bestDist := 0
	for _, id := range c.Items.Palette {
		d := levenshtein.ComputeDistance(name, id)
		if d > suggestLimit(len(id)) {
			continue
		}
		if best == "" || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
