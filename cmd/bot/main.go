package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"crystalsim/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name    = flag.String("name", "bot", "client name")
		item    = flag.String("item", "RAW_CRYSTAL", "item id to drop")
		count   = flag.Int("count", 1, "stack size per drop")
		n       = flag.Int("n", 1, "number of drops")
		x       = flag.Float64("x", 0.5, "first drop x")
		y       = flag.Float64("y", 1.5, "drop y")
		z       = flag.Float64("z", 0.5, "first drop z")
		spacing = flag.Float64("spacing", 3, "x offset between consecutive drops")
		size    = flag.Int("size", 0, "crystal size (props sent when > 0)")
		purity  = flag.Int("purity", 50, "crystal purity")
		cut     = flag.Int("cut", 0, "crystal cut")
		frac    = flag.Int("frac", 0, "crystal fracturation")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := readTyped(conn, protocol.TypeWelcome, &welcome); err != nil {
		logger.Fatalf("WELCOME: %v", err)
	}
	logger.Printf("WELCOME session=%s world=%s tick=%d tick_rate=%d seed=%d", welcome.SessionID, welcome.WorldID, welcome.Tick, welcome.WorldParams.TickRateHz, welcome.WorldParams.Seed)

	var props *protocol.PropsMsg
	if *size > 0 {
		props = &protocol.PropsMsg{Size: *size, Purity: *purity, Cut: *cut, Fracturation: *frac}
	}
	failed := 0
	for i := 0; i < *n; i++ {
		drop := protocol.DropMsg{
			Type:            protocol.TypeDrop,
			ProtocolVersion: protocol.Version,
			ReqID:           fmt.Sprintf("D_%d", i),
			Item:            *item,
			Count:           *count,
			Pos:             [3]float64{*x + float64(i)*(*spacing), *y, *z},
			Props:           props,
		}
		if err := conn.WriteJSON(drop); err != nil {
			logger.Fatalf("send DROP: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Fatalf("read: %v", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			logger.Fatalf("decode: %v", err)
		}
		switch base.Type {
		case protocol.TypeDropped:
			var d protocol.DroppedMsg
			_ = json.Unmarshal(msg, &d)
			if d.EntityID == "" {
				logger.Printf("%s captured at tick=%d", d.ReqID, d.Tick)
			} else {
				logger.Printf("%s -> entity=%s tick=%d", d.ReqID, d.EntityID, d.Tick)
			}
		case protocol.TypeError:
			var e protocol.ErrorMsg
			_ = json.Unmarshal(msg, &e)
			logger.Printf("%s failed: %s %s", e.ReqID, e.Code, e.Message)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func readTyped(conn *websocket.Conn, typ string, v any) error {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return err
	}
	if base.Type != typ {
		return fmt.Errorf("expected %s, got %s", typ, base.Type)
	}
	return json.Unmarshal(msg, v)
}
