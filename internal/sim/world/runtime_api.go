package world

import (
	"context"

	"idlecraft.ai/internal/protocol"
)

// Submit hands a command to the loop and waits for its result. The command is
// applied before the next tick.
func (w *World) Submit(ctx context.Context, actor string, cmd protocol.CmdMsg) (Result, error) {
	req := cmdReq{Actor: actor, Cmd: cmd, Resp: make(chan Result, 1)}
	select {
	case w.cmds <- req:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-w.stop:
		return Result{}, ErrStopped
	}
	select {
	case r := <-req.Resp:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-w.stop:
		return Result{}, ErrStopped
	}
}

// RequestState returns a view of the grid and inventory between ticks.
func (w *World) RequestState(ctx context.Context) (protocol.StateMsg, error) {
	req := stateReq{Resp: make(chan protocol.StateMsg, 1)}
	select {
	case w.stateReq <- req:
	case <-ctx.Done():
		return protocol.StateMsg{}, ctx.Err()
	case <-w.stop:
		return protocol.StateMsg{}, ErrStopped
	}
	select {
	case s := <-req.Resp:
		return s, nil
	case <-ctx.Done():
		return protocol.StateMsg{}, ctx.Err()
	case <-w.stop:
		return protocol.StateMsg{}, ErrStopped
	}
}

// Attach subscribes out to encoded STATE messages. The current state is sent
// right away, then one after every tick. out should be buffered.
func (w *World) Attach(ctx context.Context, id string, out chan []byte) error {
	select {
	case w.attach <- attachReq{ID: id, Out: out}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stop:
		return ErrStopped
	}
}

func (w *World) Detach(id string) {
	select {
	case w.detach <- id:
	case <-w.stop:
	}
}

// Welcome describes the static parameters a client needs.
func (w *World) Welcome(sessionID string) protocol.WelcomeMsg {
	t := w.cfg.Tuning
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WorldID:         w.cfg.ID,
		TickIntervalMs:  t.TickIntervalMs,
		Grid:            protocol.GridParams{Width: t.Grid.Width, Height: t.Grid.Height},
		Catalogs: protocol.CatalogDigests{
			ItemsDigest:   w.catalogs.Items.Digest,
			RecipesDigest: w.catalogs.Recipes.Digest,
		},
	}
}
