package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"idlecraft.ai/internal/persistence/indexdb"
	persistlog "idlecraft.ai/internal/persistence/log"
	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/world"
	"idlecraft.ai/internal/transport/ws"
)

type serverDeps struct {
	World       *world.World
	Index       runtimeIndex // nil when indexing is disabled
	Journals    map[string]journal
	EnableAdmin bool
	Logger      *log.Logger
}

type journal interface {
	Stats() persistlog.JournalStats
}

func newMux(d serverDeps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", metricsHandler(d))
	mux.HandleFunc("/v1/state", stateHandler(d.World))
	mux.HandleFunc("/v1/ws", ws.NewServer(d.World, d.Logger).Handler())

	if d.EnableAdmin {
		// Local-only admin endpoints.
		mux.HandleFunc("/admin/v1/give", loopbackOnly(giveHandler(d.World)))
		mux.HandleFunc("/admin/v1/audits", loopbackOnly(auditsHandler(d.Index)))
	} else if d.Logger != nil {
		d.Logger.Printf("admin endpoints disabled (IC_ENABLE_ADMIN_HTTP=false)")
	}
	return mux
}

func loopbackOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func stateHandler(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		st, err := w.RequestState(ctx)
		if err != nil {
			writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(rw, http.StatusOK, st)
	}
}

type giveRequest struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func giveHandler(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req giveRequest
		if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, 4096)).Decode(&req); err != nil {
			writeJSON(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		res, err := w.Submit(ctx, "admin", protocol.CmdMsg{
			Type:            protocol.TypeCmd,
			ProtocolVersion: protocol.Version,
			ID:              "admin_give",
			Op:              world.OpGive,
			Item:            req.Item,
			Count:           req.Count,
		})
		if err != nil {
			writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		status := http.StatusOK
		if !res.Accepted {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(rw, status, map[string]any{
			"ok":      res.Accepted,
			"tick":    res.Tick,
			"code":    res.Code,
			"message": res.Message,
			"items":   res.Items,
		})
	}
}

func auditsHandler(idx runtimeIndex) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		q, ok := idx.(auditQuerier)
		if !ok {
			writeJSON(rw, http.StatusNotImplemented, map[string]any{"error": "audit queries need the sqlite index"})
			return
		}
		cell, err := strconv.Atoi(r.URL.Query().Get("cell"))
		if err != nil || cell < 0 {
			writeJSON(rw, http.StatusBadRequest, map[string]any{"error": "cell must be a non-negative integer"})
			return
		}
		since, _ := strconv.ParseUint(r.URL.Query().Get("since"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		if s, ok := idx.(interface{ Sync(context.Context) error }); ok {
			_ = s.Sync(r.Context())
		}
		entries, err := q.CellAudits(r.Context(), cell, since, limit)
		if err != nil {
			writeJSON(rw, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if entries == nil {
			entries = []world.AuditEntry{}
		}
		writeJSON(rw, http.StatusOK, map[string]any{"cell": cell, "audits": entries})
	}
}

func metricsHandler(d serverDeps) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		w := d.World
		id := w.ID()
		m := w.Metrics()
		tick := w.CurrentTick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP idlecraft_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_tick gauge\n")
		fmt.Fprintf(rw, "idlecraft_world_tick{world=%q} %d\n", id, tick)

		fmt.Fprintf(rw, "# HELP idlecraft_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_step_ms gauge\n")
		fmt.Fprintf(rw, "idlecraft_world_step_ms{world=%q} %.3f\n", id, m.StepMS)

		fmt.Fprintf(rw, "# HELP idlecraft_world_machines Placed machines by kind.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_machines gauge\n")
		kinds := make([]string, 0, len(m.Machines))
		for k := range m.Machines {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(rw, "idlecraft_world_machines{world=%q,kind=%q} %d\n", id, k, m.Machines[k])
		}

		fmt.Fprintf(rw, "# HELP idlecraft_world_subscribers Connected state subscribers.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_subscribers gauge\n")
		fmt.Fprintf(rw, "idlecraft_world_subscribers{world=%q} %d\n", id, m.Subscribers)

		fmt.Fprintf(rw, "# HELP idlecraft_world_commands_total Commands applied, by outcome.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_commands_total counter\n")
		fmt.Fprintf(rw, "idlecraft_world_commands_total{world=%q,outcome=%q} %d\n", id, "accepted", m.CommandsTotal-m.CommandsRejected)
		fmt.Fprintf(rw, "idlecraft_world_commands_total{world=%q,outcome=%q} %d\n", id, "rejected", m.CommandsRejected)

		fmt.Fprintf(rw, "# HELP idlecraft_world_events_total Machine events emitted by ticks.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_events_total counter\n")
		fmt.Fprintf(rw, "idlecraft_world_events_total{world=%q} %d\n", id, m.EventsTotal)

		fmt.Fprintf(rw, "# HELP idlecraft_world_queue_depth Channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_world_queue_depth gauge\n")
		fmt.Fprintf(rw, "idlecraft_world_queue_depth{world=%q,queue=%q} %d\n", id, "commands", m.QueueDepths.Commands)
		fmt.Fprintf(rw, "idlecraft_world_queue_depth{world=%q,queue=%q} %d\n", id, "state", m.QueueDepths.State)
		fmt.Fprintf(rw, "idlecraft_world_queue_depth{world=%q,queue=%q} %d\n", id, "attach", m.QueueDepths.Attach)

		writeJournalMetrics(rw, id, d.Journals)
		writeIndexMetrics(rw, id, d.Index)
	}
}

func writeJournalMetrics(rw http.ResponseWriter, id string, js map[string]journal) {
	if len(js) == 0 {
		return
	}
	names := make([]string, 0, len(js))
	for n := range js {
		names = append(names, n)
	}
	sort.Strings(names)
	stats := make([]persistlog.JournalStats, len(names))
	for i, n := range names {
		stats[i] = js[n].Stats()
	}

	fmt.Fprintf(rw, "# HELP idlecraft_journal_lines_total Lines appended to the on-disk journals.\n")
	fmt.Fprintf(rw, "# TYPE idlecraft_journal_lines_total counter\n")
	for i, n := range names {
		fmt.Fprintf(rw, "idlecraft_journal_lines_total{world=%q,journal=%q} %d\n", id, n, stats[i].Lines)
	}
	fmt.Fprintf(rw, "# HELP idlecraft_journal_segments_total Hourly segments opened.\n")
	fmt.Fprintf(rw, "# TYPE idlecraft_journal_segments_total counter\n")
	for i, n := range names {
		fmt.Fprintf(rw, "idlecraft_journal_segments_total{world=%q,journal=%q} %d\n", id, n, stats[i].Segments)
	}
	fmt.Fprintf(rw, "# HELP idlecraft_journal_write_errors_total Failed journal appends.\n")
	fmt.Fprintf(rw, "# TYPE idlecraft_journal_write_errors_total counter\n")
	for i, n := range names {
		fmt.Fprintf(rw, "idlecraft_journal_write_errors_total{world=%q,journal=%q} %d\n", id, n, stats[i].WriteErrs)
	}
}

func writeIndexMetrics(rw http.ResponseWriter, id string, idx runtimeIndex) {
	switch ix := idx.(type) {
	case *indexdb.SQLiteIndex:
		s := ix.Stats()
		fmt.Fprintf(rw, "# HELP idlecraft_index_queue_depth Index writer queue depth.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "idlecraft_index_queue_depth{world=%q,backend=%q} %d\n", id, "sqlite", s.QueueDepth)
		fmt.Fprintf(rw, "# HELP idlecraft_index_dropped_total Index records dropped because the queue was full.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_index_dropped_total counter\n")
		fmt.Fprintf(rw, "idlecraft_index_dropped_total{world=%q,backend=%q,kind=%q} %d\n", id, "sqlite", "tick", s.DropTickTotal)
		fmt.Fprintf(rw, "idlecraft_index_dropped_total{world=%q,backend=%q,kind=%q} %d\n", id, "sqlite", "audit", s.DropAuditTotal)
	case *indexdb.D1Index:
		s := ix.Stats()
		fmt.Fprintf(rw, "# HELP idlecraft_index_queue_depth Index writer queue depth.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "idlecraft_index_queue_depth{world=%q,backend=%q} %d\n", id, "d1", s.QueueDepth)
		fmt.Fprintf(rw, "# HELP idlecraft_index_dropped_total Index records dropped because the queue was full.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_index_dropped_total counter\n")
		fmt.Fprintf(rw, "idlecraft_index_dropped_total{world=%q,backend=%q,kind=%q} %d\n", id, "d1", "queue", s.QueueDroppedTotal)
		fmt.Fprintf(rw, "idlecraft_index_dropped_total{world=%q,backend=%q,kind=%q} %d\n", id, "d1", "retain", s.RetainDropTotal)
		fmt.Fprintf(rw, "# HELP idlecraft_index_flush_fail_total Failed ingest flushes.\n")
		fmt.Fprintf(rw, "# TYPE idlecraft_index_flush_fail_total counter\n")
		fmt.Fprintf(rw, "idlecraft_index_flush_fail_total{world=%q} %d\n", id, s.FlushFailTotal)
	}
}
