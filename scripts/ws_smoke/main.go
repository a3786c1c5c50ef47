package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vovakirdan/chatroom-server/internal/client"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:4000", "server base URL")
	user := flag.String("user", "tester", "username (registered on first use)")
	password := flag.String("password", "tester-password", "password")
	room := flag.String("room", "general", "room id")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	token, err := client.Authenticate(ctx, nil, *server, *user, *password)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	wsURL, err := client.WebSocketURL(*server)
	if err != nil {
		return err
	}
	conn, err := client.Dial(ctx, wsURL, token)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Join(ctx, *room); err != nil {
		return err
	}
	if err := conn.Say(ctx, *room, *text); err != nil {
		return err
	}

	for {
		f, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		switch f.Type {
		case proto.OutboundError:
			var e proto.Error
			_ = f.Decode(&e)
			return fmt.Errorf("server error %s: %s", e.Code, e.Msg)
		case proto.OutboundMessageNew:
			var msg proto.Message
			if err := f.Decode(&msg); err != nil {
				return err
			}
			if msg.Content != *text {
				continue
			}
			log.Printf("ok: %s echoed %q in %s at %s", msg.DisplayName, msg.Content, msg.RoomID, msg.Timestamp.Format(time.RFC3339))
			return nil
		}
		if ctx.Err() != nil {
			return errors.New("timed out waiting for echo")
		}
	}
}
