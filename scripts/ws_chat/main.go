package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vovakirdan/chatroom-server/internal/client"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:4000", "server base URL")
	user := flag.String("user", "cli-user", "username (registered on first use)")
	password := flag.String("password", "cli-password", "password")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
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

	fmt.Printf("Connected to %s as %s in room %s\n", wsURL, *user, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room)
	return nil
}

func readLoop(ctx context.Context, conn *client.Conn) {
	for {
		f, err := conn.Read(ctx)
		if err != nil {
			if !client.IsClosed(err) {
				log.Printf("read error: %v", err)
			}
			return
		}

		switch f.Type {
		case proto.OutboundMessageNew:
			var msg proto.Message
			if err := f.Decode(&msg); err != nil {
				log.Print(err)
				continue
			}
			fmt.Printf("[%s] %s: %s\n", msg.RoomID, msg.DisplayName, msg.Content)
		case proto.OutboundRoomMessages:
			var history []proto.Message
			if err := f.Decode(&history); err != nil {
				log.Print(err)
				continue
			}
			for _, msg := range history {
				fmt.Printf("[%s] %s: %s (history)\n", msg.RoomID, msg.DisplayName, msg.Content)
			}
		case proto.OutboundRoomUserJoined, proto.OutboundRoomUserLeft:
			var u proto.User
			if err := f.Decode(&u); err != nil {
				log.Print(err)
				continue
			}
			verb := "joined"
			if f.Type == proto.OutboundRoomUserLeft {
				verb = "left"
			}
			fmt.Printf("* %s %s\n", u.DisplayName, verb)
		case proto.OutboundError:
			var e proto.Error
			if err := f.Decode(&e); err != nil {
				log.Print(err)
				continue
			}
			fmt.Printf("! %s: %s\n", e.Code, e.Msg)
		case proto.OutboundRoomsList, proto.OutboundRoomUpdate, proto.OutboundUsersOnline,
			proto.OutboundTypingStart, proto.OutboundTypingStop:
			// snapshots are noise in a line-oriented client
		default:
			fmt.Printf("event=%s data=%s\n", f.Type, f.Data)
		}
	}
}

func writeLoop(ctx context.Context, conn *client.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if err := conn.Say(ctx, room, text); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
