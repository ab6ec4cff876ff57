package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type tickRow struct {
	Tick     uint64 `json:"tick"`
	Digest   string `json:"digest"`
	Commands int    `json:"commands"`
	Events   int    `json:"events"`
}

type commandRow struct {
	Tick    uint64 `json:"tick"`
	Seq     int    `json:"seq"`
	Actor   string `json:"actor"`
	Op      string `json:"op"`
	Cell    int    `json:"cell"`
	CmdJSON string `json:"cmd_json"`
}

type catalogRow struct {
	Name      string `json:"name"`
	Digest    string `json:"digest"`
	UpdatedAt string `json:"updated_at"`
}

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	actor := fs.String("actor", "", "actor filter (commands)")
	_ = fs.Parse(args)

	q := "ticks"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	var rows []any
	switch q {
	case "ticks":
		rows, err = collect(queryTicks(db, *limit))
	case "commands":
		rows, err = collect(queryCommands(db, *actor, *limit))
	case "catalogs":
		rows, err = collect(queryCatalogs(db))
	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q, "(want ticks|commands|catalogs)")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, r := range rows {
		printJSON(r)
	}
}

func collect[T any](rows []T, err error) ([]any, error) {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return out, err
}

// queryTicks returns the most recent ticks, newest first.
func queryTicks(db *sql.DB, limit int) ([]tickRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT tick,digest,commands,events FROM ticks ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []tickRow
	for rows.Next() {
		var r tickRow
		var tick int64
		if err := rows.Scan(&tick, &r.Digest, &r.Commands, &r.Events); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

// queryCommands returns the most recent commands, newest first.
func queryCommands(db *sql.DB, actor string, limit int) ([]commandRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		rows *sql.Rows
		err  error
	)
	if actor != "" {
		rows, err = db.Query(`SELECT tick,seq,actor,op,cell,cmd_json FROM commands WHERE actor=? ORDER BY tick DESC, seq DESC LIMIT ?`, actor, limit)
	} else {
		rows, err = db.Query(`SELECT tick,seq,actor,op,cell,cmd_json FROM commands ORDER BY tick DESC, seq DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []commandRow
	for rows.Next() {
		var r commandRow
		var tick int64
		if err := rows.Scan(&tick, &r.Seq, &r.Actor, &r.Op, &r.Cell, &r.CmdJSON); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryCatalogs(db *sql.DB) ([]catalogRow, error) {
	rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalogRow
	for rows.Next() {
		var r catalogRow
		if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
