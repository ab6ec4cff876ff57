package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"idlecraft.ai/internal/persistence/indexdb"
	persistlog "idlecraft.ai/internal/persistence/log"
	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
	"idlecraft.ai/internal/sim/world"
)

func findRepoRootForServerTests(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not locate go.mod from %s", dir)
		}
		dir = parent
	}
}

func newTestServer(t *testing.T, withIndex, admin bool) (*httptest.Server, *world.World) {
	return newTestServerWith(t, withIndex, admin, nil)
}

// newTestServerWith also journals ticks to tl when it is non-nil.
func newTestServerWith(t *testing.T, withIndex, admin bool, tl *persistlog.TickLogger) (*httptest.Server, *world.World) {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join(findRepoRootForServerTests(t), "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune := tuning.Defaults()
	tune.TickIntervalMs = 10
	w, err := world.New(world.WorldConfig{ID: "test", Tuning: tune}, cats)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	var idx runtimeIndex
	if withIndex {
		sq, err := indexdb.OpenSQLite(filepath.Join(t.TempDir(), "world.sqlite"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = sq.Close() })
		idx = sq
		w.SetTickLogger(sq)
		w.SetAuditLogger(sq)
	}
	var journals map[string]journal
	if tl != nil {
		w.SetTickLogger(tl)
		journals = map[string]journal{"events": tl}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	srv := httptest.NewServer(newMux(serverDeps{World: w, Index: idx, Journals: journals, EnableAdmin: admin}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, w
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func postJSON(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHealthzAndState(t *testing.T) {
	srv, _ := newTestServer(t, false, false)

	if code, body := get(t, srv.URL+"/healthz"); code != 200 || body != "ok" {
		t.Fatalf("healthz=%d %q", code, body)
	}

	code, body := get(t, srv.URL+"/v1/state")
	if code != 200 {
		t.Fatalf("state status=%d body=%s", code, body)
	}
	var st protocol.StateMsg
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Type != protocol.TypeState || st.Grid.Width != 10 || len(st.Inventory) != 36 {
		t.Fatalf("state=%+v", st)
	}
}

func TestMetricsExposition(t *testing.T) {
	srv, _ := newTestServer(t, true, false)
	code, body := get(t, srv.URL+"/metrics")
	if code != 200 {
		t.Fatalf("metrics status=%d", code)
	}
	for _, want := range []string{
		`idlecraft_world_tick{world="test"}`,
		`idlecraft_world_queue_depth{world="test",queue="commands"}`,
		`idlecraft_index_queue_depth{world="test",backend="sqlite"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s:\n%s", want, body)
		}
	}
}

func TestMetrics_JournalCounters(t *testing.T) {
	tl := persistlog.NewTickLogger(t.TempDir())
	t.Cleanup(func() { _ = tl.Close() })
	srv, w := newTestServerWith(t, false, false, tl)

	deadline := time.Now().Add(2 * time.Second)
	for w.CurrentTick() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("world did not tick")
		}
		time.Sleep(5 * time.Millisecond)
	}
	_, body := get(t, srv.URL+"/metrics")
	for _, want := range []string{
		`idlecraft_journal_segments_total{world="test",journal="events"} 1`,
		`idlecraft_journal_write_errors_total{world="test",journal="events"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s:\n%s", want, body)
		}
	}
	if tl.Stats().Lines < 3 {
		t.Fatalf("journal lines=%d", tl.Stats().Lines)
	}
}

func TestAdminGive(t *testing.T) {
	srv, _ := newTestServer(t, false, true)

	code, out := postJSON(t, srv.URL+"/admin/v1/give", `{"item":"coal","count":10}`)
	if code != 200 || out["ok"] != true {
		t.Fatalf("give status=%d out=%v", code, out)
	}

	code, out = postJSON(t, srv.URL+"/admin/v1/give", `{"item":"cole","count":1}`)
	if code != http.StatusUnprocessableEntity || out["code"] != protocol.ErrBadRequest {
		t.Fatalf("give unknown status=%d out=%v", code, out)
	}

	if code, _ := get(t, srv.URL+"/admin/v1/give"); code != http.StatusMethodNotAllowed {
		t.Fatalf("GET give status=%d", code)
	}
}

func TestAdminDisabled(t *testing.T) {
	srv, _ := newTestServer(t, false, false)
	code, _ := postJSON(t, srv.URL+"/admin/v1/give", `{"item":"coal","count":10}`)
	if code != http.StatusNotFound {
		t.Fatalf("status=%d", code)
	}
}

func TestAdminAudits(t *testing.T) {
	srv, w := newTestServer(t, true, true)

	res, err := w.Submit(context.Background(), "p1", protocol.CmdMsg{
		Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: "c1",
		Op: protocol.OpPlace, Index: 7, Item: "chest",
	})
	if err != nil || !res.Accepted {
		t.Fatalf("place res=%+v err=%v", res, err)
	}

	code, body := get(t, srv.URL+"/admin/v1/audits?cell=7")
	if code != 200 {
		t.Fatalf("audits status=%d body=%s", code, body)
	}
	var out struct {
		Cell   int                `json:"cell"`
		Audits []world.AuditEntry `json:"audits"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Audits) != 1 || out.Audits[0].Action != "PLACE" || out.Audits[0].Actor != "p1" {
		t.Fatalf("audits=%+v", out.Audits)
	}

	if code, _ := get(t, srv.URL+"/admin/v1/audits?cell=x"); code != http.StatusBadRequest {
		t.Fatalf("bad cell status=%d", code)
	}
}

func TestAdminAuditsWithoutIndex(t *testing.T) {
	srv, _ := newTestServer(t, false, true)
	if code, _ := get(t, srv.URL+"/admin/v1/audits?cell=0"); code != http.StatusNotImplemented {
		t.Fatalf("status=%d", code)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1:5555": true,
		"[::1]:80":       true,
		"10.0.0.4:80":    false,
		"garbage":        false,
	}
	for addr, want := range cases {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("isLoopbackRemote(%q)=%v want %v", addr, got, want)
		}
	}
}
