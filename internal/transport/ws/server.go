package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/world"
)

const (
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
	handshakeTimeout = 5 * time.Second
	stateQueue       = 8
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hello, ok := s.handshake(conn)
		if !ok {
			return
		}
		sessionID := uuid.NewString()
		actor := hello.PlayerName
		if actor == "" {
			actor = "player"
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if err := writeJSON(conn, s.world.Welcome(sessionID)); err != nil {
			return
		}

		states := make(chan []byte, stateQueue)
		acks := make(chan protocol.AckMsg, 16)
		if err := s.world.Attach(ctx, sessionID, states); err != nil {
			return
		}
		defer s.world.Detach(sessionID)
		s.logf("session %s open actor=%s remote=%s", sessionID, actor, r.RemoteAddr)

		// Writer goroutine; the only one that writes after the handshake.
		go func() {
			for {
				var b []byte
				select {
				case <-ctx.Done():
					return
				case ack := <-acks:
					b, _ = json.Marshal(ack)
				case b = <-states:
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			ack, ok := s.handleFrame(ctx, actor, msg)
			if !ok {
				continue
			}
			select {
			case acks <- ack:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		s.logf("session %s closed", sessionID)
	}
}

// handleFrame turns one client frame into an ACK. Frames that are not CMDs
// are ignored.
func (s *Server) handleFrame(ctx context.Context, actor string, msg []byte) (protocol.AckMsg, bool) {
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeCmd {
		return protocol.AckMsg{}, false
	}
	var cmd protocol.CmdMsg
	_ = json.Unmarshal(msg, &cmd)

	ack := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          cmd.ID,
		ServerTick:      s.world.CurrentTick(),
	}
	if err := protocol.ValidateCmd(msg); err != nil {
		ack.Code, ack.Message = protocol.ErrProtoBadRequest, err.Error()
		return ack, true
	}
	if cmd.ProtocolVersion != protocol.Version {
		ack.Code, ack.Message = protocol.ErrProtoBadRequest, "bad protocol_version"
		return ack, true
	}

	res, err := s.world.Submit(ctx, actor, cmd)
	if err != nil {
		ack.Code, ack.Message = protocol.ErrInternal, err.Error()
		return ack, true
	}
	ack.Accepted = res.Accepted
	ack.Code = res.Code
	ack.Message = res.Message
	ack.ServerTick = res.Tick
	for _, it := range res.Items {
		ack.Items = append(ack.Items, protocol.StackView{Item: it.Item, Count: it.Count})
	}
	return ack, true
}

func (s *Server) handshake(conn *websocket.Conn) (protocol.HelloMsg, bool) {
	var hello protocol.HelloMsg
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return hello, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return hello, false
	}
	if err := protocol.ValidateHello(msg); err != nil {
		closeWith(conn, "bad HELLO")
		return hello, false
	}
	if err := json.Unmarshal(msg, &hello); err != nil {
		return hello, false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return hello, false
	}
	return hello, true
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}
