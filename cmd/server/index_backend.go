package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"idlecraft.ai/internal/persistence/indexdb"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
	"idlecraft.ai/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.AuditLogger
	Close() error
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
}

// auditQuerier is implemented by backends that can answer audit lookups
// locally (sqlite). Remote ingest backends cannot.
type auditQuerier interface {
	CellAudits(ctx context.Context, cell int, sinceTick uint64, limit int) ([]world.AuditEntry, error)
}

func openRuntimeIndex(worldDir, worldID string, disableDB bool, logger *log.Logger) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("IC_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	case "d1":
		endpoint := strings.TrimSpace(os.Getenv("IC_INDEX_D1_INGEST_URL"))
		token := strings.TrimSpace(os.Getenv("IC_INDEX_D1_TOKEN"))
		if endpoint == "" {
			return nil, fmt.Errorf("IC_INDEX_BACKEND=d1 but IC_INDEX_D1_INGEST_URL is empty")
		}
		return indexdb.OpenD1(indexdb.D1Config{
			Endpoint:      endpoint,
			Token:         token,
			WorldID:       worldID,
			BatchSize:     envInt("IC_INDEX_D1_BATCH_SIZE", 128),
			FlushInterval: time.Duration(envInt("IC_INDEX_D1_FLUSH_MS", 500)) * time.Millisecond,
			MaxRetained:   envInt("IC_INDEX_D1_MAX_RETAINED", 4096),
			Logger:        logger,
		})
	default:
		return nil, fmt.Errorf("unsupported IC_INDEX_BACKEND: %s", backend)
	}
}
