package world

import (
	"errors"
	"fmt"
	"strings"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/factory"
)

// apply runs one command against the factory and records it for the next
// tick's log entry. Rejected commands are recorded too so a replay feeds the
// loop exactly what it saw.
func (w *World) apply(actor string, cmd protocol.CmdMsg) Result {
	nowTick := w.tick.Load()
	w.pending = append(w.pending, RecordedCommand{Actor: actor, Cmd: cmd})
	w.cmdTotal++

	res := w.dispatch(nowTick, cmd)
	if !res.Accepted {
		w.cmdRejected++
		return res
	}
	w.audit(AuditEntry{Tick: nowTick, Actor: actor, Action: strings.ToUpper(cmd.Op), Index: cmd.Index, Item: cmd.Item, Count: cmd.Count})
	return res
}

func (w *World) dispatch(nowTick uint64, cmd protocol.CmdMsg) Result {
	if cmd.Item != "" {
		if _, ok := w.catalogs.Item(cmd.Item); !ok {
			msg := fmt.Sprintf("unknown item %q", cmd.Item)
			if s := w.catalogs.Suggest(cmd.Item); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			return rejected(nowTick, protocol.ErrBadRequest, msg)
		}
	}

	f := w.factory
	var (
		items []factory.Stack
		err   error
	)
	switch cmd.Op {
	case protocol.OpPlace:
		_, err = f.Place(cmd.Index, cmd.Item, w.inv)
	case protocol.OpPickup:
		items, err = f.Pickup(cmd.Index, w.inv)
	case protocol.OpConfigure:
		var d factory.Direction
		if d, err = factory.ParseDirection(cmd.Side); err == nil {
			err = f.SetSide(cmd.Index, factory.IO(cmd.IO), d, w.inv)
		}
	case protocol.OpInsert:
		err = f.Insert(cmd.Index, cmd.Item, w.inv)
	case protocol.OpTakeOutput:
		var s factory.Stack
		if s, err = f.TakeOutput(cmd.Index, w.inv); err == nil {
			items = []factory.Stack{s}
		}
	case protocol.OpChestStore:
		err = f.ChestStore(cmd.Index, cmd.Item, cmd.Count, w.inv)
	case protocol.OpChestTake:
		var s factory.Stack
		if s, err = f.ChestTake(cmd.Index, cmd.Slot, w.inv); err == nil {
			items = []factory.Stack{s}
		}
	case OpGive:
		if cmd.Item == "" || cmd.Count <= 0 {
			return rejected(nowTick, protocol.ErrBadRequest, "give needs item and count")
		}
		n := w.inv.Add(cmd.Item, cmd.Count)
		if n == 0 {
			return rejected(nowTick, protocol.ErrBlocked, factory.ErrInventoryFull.Error())
		}
		items = []factory.Stack{{Item: cmd.Item, Count: n}}
	default:
		return rejected(nowTick, protocol.ErrBadRequest, fmt.Sprintf("unknown op %q", cmd.Op))
	}
	if err != nil {
		return rejected(nowTick, codeFor(err), err.Error())
	}
	return accepted(nowTick, items)
}

// codeFor maps factory errors to wire codes.
func codeFor(err error) string {
	switch {
	case errors.Is(err, factory.ErrCellOccupied):
		return protocol.ErrConflict
	case errors.Is(err, factory.ErrMissingItem), errors.Is(err, factory.ErrNothingToTake):
		return protocol.ErrNoResource
	case errors.Is(err, factory.ErrMissingTool):
		return protocol.ErrNoPermission
	case errors.Is(err, factory.ErrInventoryFull), errors.Is(err, factory.ErrChestFull):
		return protocol.ErrBlocked
	case errors.Is(err, factory.ErrOutOfBounds),
		errors.Is(err, factory.ErrCellEmpty),
		errors.Is(err, factory.ErrNotConfigurable),
		errors.Is(err, factory.ErrRejected):
		return protocol.ErrInvalidTarget
	case errors.Is(err, factory.ErrNotMachineItem),
		errors.Is(err, factory.ErrBadDirection),
		errors.Is(err, factory.ErrBadSlot):
		return protocol.ErrBadRequest
	}
	return protocol.ErrInternal
}

func (w *World) audit(e AuditEntry) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(e)
}

func (w *World) auditMachine(nowTick uint64, e factory.Event) {
	if w.auditLogger == nil {
		return
	}
	entry := AuditEntry{
		Tick:   nowTick,
		Actor:  string(e.Kind),
		Action: e.Action,
		Index:  e.Index,
		Item:   e.Item,
		Count:  e.Count,
	}
	if e.Peer != factory.NoNeighbor {
		peer := e.Peer
		entry.Peer = &peer
	}
	w.audit(entry)
}
