package world

import (
	"errors"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/factory"
)

// ErrStopped is returned by requests made after the loop exited.
var ErrStopped = errors.New("world stopped")

// OpGive grants items to the player. It is only issued by the admin surface
// and is recorded like any other command so replays reproduce it.
const OpGive = "give"

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64            `json:"tick"`
	Commands []RecordedCommand `json:"commands,omitempty"`
	Events   int               `json:"events,omitempty"`
	Digest   string            `json:"digest"`
}

// RecordedCommand is a command as applied, in arrival order.
type RecordedCommand struct {
	Actor string          `json:"actor"`
	Cmd   protocol.CmdMsg `json:"cmd"`
}

type AuditEntry struct {
	Tick   uint64 `json:"tick"`
	Actor  string `json:"actor"`
	Action string `json:"action"` // e.g. "PLACE", "JOB_DONE"
	Index  int    `json:"index"`
	Item   string `json:"item,omitempty"`
	Count  int    `json:"count,omitempty"`
	Peer   *int   `json:"peer,omitempty"` // neighboring chest, if any
	Reason string `json:"reason,omitempty"`
}

// Result is the outcome of one command.
type Result struct {
	Tick     uint64
	Accepted bool
	Code     string
	Message  string
	Items    []factory.Stack
}

func accepted(tick uint64, items []factory.Stack) Result {
	return Result{Tick: tick, Accepted: true, Items: items}
}

func rejected(tick uint64, code, msg string) Result {
	return Result{Tick: tick, Code: code, Message: msg}
}
