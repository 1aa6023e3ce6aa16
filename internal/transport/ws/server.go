package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"crystalsim/internal/protocol"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/world"
)

const dropTimeout = 5 * time.Second

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID := s.handshake(conn)
		if sessionID == "" {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, 16)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop. Drops are handled one at a time per session.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			reply := s.handleMessage(ctx, msg)
			if reply == nil {
				continue
			}
			b, err := json.Marshal(reply)
			if err != nil {
				continue
			}
			select {
			case out <- b:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		if s.log != nil {
			s.log.Printf("session %s closed", sessionID)
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "malformed json")
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "bad protocol_version")
	}
	switch base.Type {
	case protocol.TypeDrop:
		var drop protocol.DropMsg
		if err := json.Unmarshal(msg, &drop); err != nil {
			return protocol.NewError("", protocol.ErrProtoBadRequest, "bad DROP payload")
		}
		return s.handleDrop(ctx, drop)
	default:
		return protocol.NewError("", protocol.ErrProtoBadRequest, fmt.Sprintf("unsupported type %q", base.Type))
	}
}

func (s *Server) handleDrop(ctx context.Context, m protocol.DropMsg) any {
	item := strings.TrimSpace(m.Item)
	if item == "" {
		return protocol.NewError(m.ReqID, protocol.ErrBadRequest, "missing item")
	}
	st := world.Stack{Item: item, Count: m.Count}
	if m.Props != nil {
		p := crystal.New(m.Props.Size, m.Props.Purity, m.Props.Cut, m.Props.Fracturation)
		if m.Props.SizeOverride != nil {
			p = p.WithOverride(*m.Props.SizeOverride)
		}
		st = st.WithProps(p)
	}
	pos := world.Vec3{X: m.Pos[0], Y: m.Pos[1], Z: m.Pos[2]}

	dctx, cancel := context.WithTimeout(ctx, dropTimeout)
	defer cancel()
	id, err := s.world.SubmitDrop(dctx, pos, st)
	if err != nil {
		code := errorCode(err)
		if code == protocol.ErrInternal && s.log != nil {
			s.log.Printf("drop %s: %v", item, err)
		}
		return protocol.NewError(m.ReqID, code, err.Error())
	}
	return protocol.DroppedMsg{
		Type:            protocol.TypeDropped,
		ProtocolVersion: protocol.Version,
		ReqID:           m.ReqID,
		EntityID:        id,
		Tick:            s.world.CurrentTick(),
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, world.ErrUnknownItem):
		return protocol.ErrUnknownItem
	case errors.Is(err, world.ErrBadCount), errors.Is(err, world.ErrPropsRequired), errors.Is(err, world.ErrSingleUnit):
		return protocol.ErrBadRequest
	case errors.Is(err, world.ErrOutOfBounds):
		return protocol.ErrInvalidTarget
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return protocol.ErrWorldBusy
	default:
		return protocol.ErrInternal
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return ""
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return ""
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}

	sessionID = fmt.Sprintf("S%d", s.nextID.Add(1))
	cfg := s.world.Config()
	cats := s.world.Catalogs()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WorldID:         cfg.ID,
		Tick:            s.world.CurrentTick(),
		WorldParams: protocol.WorldParams{
			TickRateHz: cfg.TickRateHz,
			ChunkSize:  [3]int{16, 16, cfg.Height},
			Height:     cfg.Height,
			Seed:       cfg.Seed,
			BoundaryR:  cfg.BoundaryR,
		},
		Catalogs: protocol.CatalogDigests{
			BlockPalette: protocol.DigestRef{Digest: cats.Blocks.PaletteDigest, Count: len(cats.Blocks.Palette)},
			ItemPalette:  protocol.DigestRef{Digest: cats.Items.PaletteDigest, Count: len(cats.Items.Palette)},
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return ""
	}
	if s.log != nil {
		s.log.Printf("session %s opened by %s", sessionID, hello.ClientName)
	}
	return sessionID
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
