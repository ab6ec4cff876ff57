package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"idlecraft.ai/internal/protocol"
)

// bot connects as a player, lays out a machine plan and then logs the
// factory's progress from STATE pushes.
func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "bot", "player name")
		plan  = flag.String("plan", "chest@21,furnace@11,chest@1", "comma-separated item@cell placements")
		every = flag.Uint64("log_every", 10, "log a state summary every N ticks")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	cmds, err := parsePlan(*plan)
	if err != nil {
		logger.Fatalf("bad -plan: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s world=%s grid=%dx%d tick_ms=%d", w.SessionID, w.WorldID, w.Grid.Width, w.Grid.Height, w.TickIntervalMs)
			for _, c := range cmds {
				if err := conn.WriteJSON(c); err != nil {
					logger.Printf("send CMD %s: %v", c.ID, err)
					return
				}
			}

		case protocol.TypeAck:
			var a protocol.AckMsg
			if err := json.Unmarshal(msg, &a); err != nil {
				continue
			}
			if a.Accepted {
				logger.Printf("ACK %s ok tick=%d", a.AckFor, a.ServerTick)
			} else {
				logger.Printf("ACK %s rejected code=%s msg=%s", a.AckFor, a.Code, a.Message)
			}

		case protocol.TypeState:
			var s protocol.StateMsg
			if err := json.Unmarshal(msg, &s); err != nil {
				continue
			}
			if *every > 0 && s.Tick%*every == 0 {
				logger.Printf("tick=%d %s", s.Tick, summarize(s))
			}
		}
	}
}

// parsePlan turns "chest@21,furnace@11" into place commands.
func parsePlan(plan string) ([]protocol.CmdMsg, error) {
	var out []protocol.CmdMsg
	for i, part := range strings.Split(plan, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item, cell, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("%q: want item@cell", part)
		}
		idx, err := strconv.Atoi(cell)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%q: bad cell", part)
		}
		out = append(out, protocol.CmdMsg{
			Type:            protocol.TypeCmd,
			ProtocolVersion: protocol.Version,
			ID:              fmt.Sprintf("K_place_%d", i),
			Op:              protocol.OpPlace,
			Index:           idx,
			Item:            strings.TrimSpace(item),
		})
	}
	return out, nil
}

func summarize(s protocol.StateMsg) string {
	var b strings.Builder
	fmt.Fprintf(&b, "machines=%d", len(s.Machines))
	for _, m := range s.Machines {
		if m.RecipeTime == 0 && m.FuelBuffer == 0 && !m.Active {
			continue
		}
		fmt.Fprintf(&b, " %s@%d[", m.Kind, m.Index)
		if m.Active {
			fmt.Fprintf(&b, "%s %d/%d", m.JobItem, m.Progress, m.RecipeTime)
		} else {
			b.WriteString("idle")
		}
		if m.MaxFuelBuffer > 0 {
			fmt.Fprintf(&b, " fuel=%d/%d", m.FuelBuffer, m.MaxFuelBuffer)
		}
		b.WriteString("]")
	}
	return b.String()
}
