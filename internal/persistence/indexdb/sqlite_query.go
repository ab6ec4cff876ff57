package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"idlecraft.ai/internal/sim/world"
)

// TickDigest returns the digest recorded for tick.
func (s *SQLiteIndex) TickDigest(ctx context.Context, tick uint64) (string, bool, error) {
	var d string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM ticks WHERE tick = ?`, int64(tick)).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return d, true, nil
}

// CellAudits lists audit entries touching one grid cell, oldest first,
// starting at sinceTick.
func (s *SQLiteIndex) CellAudits(ctx context.Context, cell int, sinceTick uint64, limit int) ([]world.AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT raw_json FROM audits WHERE cell = ? AND tick >= ? ORDER BY tick, seq LIMIT ?`,
		cell, int64(sinceTick), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []world.AuditEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e world.AuditEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
