package indexdb

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
)

type catalogRow struct {
	name   string
	digest string
	data   []byte
}

// catalogRows collects the raw config files plus the tuning values actually
// applied, each with its digest.
func catalogRows(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) []catalogRow {
	var rows []catalogRow
	read := func(name, file, digest string) {
		if configDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil || len(b) == 0 {
			return
		}
		rows = append(rows, catalogRow{name: name, digest: digest, data: b})
	}
	if cats != nil {
		read("items_defs", "items.json", cats.Items.Digest)
		read("recipes", "recipes.json", cats.Recipes.Digest)
		if b, err := json.Marshal(cats.Items.Palette); err == nil {
			sum := sha256.Sum256(b)
			rows = append(rows, catalogRow{name: "items_palette", digest: hex.EncodeToString(sum[:]), data: b})
		}
	}
	if b, err := json.Marshal(tune); err == nil {
		sum := sha256.Sum256(b)
		rows = append(rows, catalogRow{name: "tuning", digest: hex.EncodeToString(sum[:]), data: b})
	}
	return rows
}
