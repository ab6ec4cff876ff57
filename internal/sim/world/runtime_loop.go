package world

import (
	"context"
	"encoding/json"
	"time"

	"idlecraft.ai/internal/protocol"
)

type cmdReq struct {
	Actor string
	Cmd   protocol.CmdMsg
	Resp  chan Result
}

type stateReq struct {
	Resp chan protocol.StateMsg
}

type attachReq struct {
	ID  string
	Out chan []byte
}

// Run drives the tick scheduler until ctx ends or Stop is called. The timer
// is re-armed only after a step finishes, so a slow tick delays the next one
// instead of queueing a burst. Once Run returns the world counts as stopped.
func (w *World) Run(ctx context.Context) error {
	timer := time.NewTimer(w.interval())
	defer timer.Stop()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.cmds:
			req.Resp <- w.apply(req.Actor, req.Cmd)
		case req := <-w.stateReq:
			req.Resp <- w.buildState()
		case req := <-w.attach:
			w.subscribers[req.ID] = req.Out
			sendLatest(req.Out, w.encodeState())
		case id := <-w.detach:
			delete(w.subscribers, id)
		case <-timer.C:
			w.step()
			timer.Reset(w.interval())
		}
	}
}

// StepOnce applies cmds in order and then runs one tick, exactly as the
// loop would. It is meant for replays and tests and must not be mixed with Run.
func (w *World) StepOnce(cmds []RecordedCommand) (tick uint64, digest string) {
	for _, rc := range cmds {
		w.apply(rc.Actor, rc.Cmd)
	}
	tick = w.tick.Load()
	digest = w.step()
	return tick, digest
}

// ApplyOnce applies one command outside the loop and returns its result. The
// command is logged with the next StepOnce. Like StepOnce it must not be mixed
// with Run.
func (w *World) ApplyOnce(actor string, cmd protocol.CmdMsg) Result {
	return w.apply(actor, cmd)
}

// StateNow builds the current state outside the loop. Not safe alongside Run.
func (w *World) StateNow() protocol.StateMsg {
	return w.buildState()
}

func (w *World) step() string {
	start := time.Now()
	nowTick := w.tick.Load()

	events := w.factory.Step()
	for _, e := range events {
		w.auditMachine(nowTick, e)
	}
	w.eventTotal += uint64(len(events))

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, Commands: w.pending, Events: len(events), Digest: digest})
	}
	// Loggers may keep the slice; start a fresh one.
	w.pending = nil

	w.tick.Add(1)

	if len(w.subscribers) > 0 {
		b := w.encodeState()
		for _, out := range w.subscribers {
			sendLatest(out, b)
		}
	}
	w.storeMetrics(time.Since(start))
	return digest
}

func (w *World) encodeState() []byte {
	b, _ := json.Marshal(w.buildState())
	return b
}

// sendLatest never blocks the loop: when the subscriber is behind, its oldest
// queued state is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
