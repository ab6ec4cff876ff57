// Package world hosts one factory and its player inventory behind a single
// goroutine. Commands, state reads and subscriptions reach it over channels;
// the tick scheduler runs in the same loop.
package world

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/factory"
	"idlecraft.ai/internal/sim/inventory"
	"idlecraft.ai/internal/sim/tuning"
)

type WorldConfig struct {
	ID     string
	Tuning tuning.Tuning
}

type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs

	factory *factory.Factory
	inv     *inventory.Inventory

	tick atomic.Uint64

	cmds     chan cmdReq
	stateReq chan stateReq
	attach   chan attachReq
	detach   chan string
	stop     chan struct{}
	stopOnce sync.Once

	subscribers map[string]chan []byte
	pending     []RecordedCommand

	tickLogger  TickLogger
	auditLogger AuditLogger

	cmdTotal    uint64
	cmdRejected uint64
	eventTotal  uint64
	metrics     atomic.Value // WorldMetrics
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	if cfg.ID == "" {
		cfg.ID = "main"
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}
	rules, err := factory.RulesFrom(cats, cfg.Tuning)
	if err != nil {
		return nil, err
	}
	defaults, err := factory.DefaultsFrom(cfg.Tuning)
	if err != nil {
		return nil, err
	}
	for id := range cfg.Tuning.StarterItems {
		if _, ok := cats.Item(id); !ok {
			return nil, fmt.Errorf("starter item %q not in catalog", id)
		}
	}

	geo := factory.Geometry{Width: cfg.Tuning.Grid.Width, Height: cfg.Tuning.Grid.Height}
	w := &World{
		cfg:         cfg,
		catalogs:    cats,
		factory:     factory.New(geo, rules, defaults),
		inv:         inventory.New(cfg.Tuning.Player.HotbarSlots, cfg.Tuning.Player.MainSlots),
		cmds:        make(chan cmdReq, 256),
		stateReq:    make(chan stateReq, 64),
		attach:      make(chan attachReq, 64),
		detach:      make(chan string, 64),
		stop:        make(chan struct{}),
		subscribers: map[string]chan []byte{},
	}
	w.inv.Seed(cfg.Tuning.StarterItems)
	w.storeMetrics(0)
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

func (w *World) ID() string { return w.cfg.ID }

func (w *World) Tuning() tuning.Tuning { return w.cfg.Tuning }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

// CurrentTick is the number of the next tick to run.
func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// Done is closed once Stop is called.
func (w *World) Done() <-chan struct{} { return w.stop }

func (w *World) interval() time.Duration { return w.cfg.Tuning.TickInterval() }
