// Package client is a small Go client for the chat server, used by the
// command-line tools under scripts/.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/chatroom-server/internal/proto"
)

// ErrUnauthorized is returned when the server rejects the credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Frame is a decoded outbound envelope.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode unmarshals the frame payload into v.
func (f Frame) Decode(v any) error {
	if err := json.Unmarshal(f.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", f.Type, err)
	}
	return nil
}

// Authenticate logs in with username and password against baseURL
// (e.g. http://localhost:4000), registering the account first when login fails.
func Authenticate(ctx context.Context, httpClient *http.Client, baseURL, username, password string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	token, err := postCredentials(ctx, httpClient, baseURL+"/api/auth/login", username, password)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrUnauthorized) {
		return "", err
	}
	return postCredentials(ctx, httpClient, baseURL+"/api/auth/register", username, password)
}

func postCredentials(ctx context.Context, httpClient *http.Client, endpoint, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var out struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: %s", ErrUnauthorized, out.Error)
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("post %s: status %d: %s", endpoint, resp.StatusCode, out.Error)
	case out.Token == "":
		return "", errors.New("empty token in response")
	}
	return out.Token, nil
}

// Conn is an authenticated WebSocket session.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens the WebSocket endpoint with a bearer token.
func Dial(ctx context.Context, wsURL, token string) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + token}},
	})
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Conn{ws: ws}, nil
}

// Send writes one inbound envelope.
func (c *Conn) Send(ctx context.Context, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, c.ws, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

// Join enters a room, creating it if needed.
func (c *Conn) Join(ctx context.Context, roomID string) error {
	return c.Send(ctx, proto.InboundRoomJoin, roomID)
}

// Say sends a chat message to a room.
func (c *Conn) Say(ctx context.Context, roomID, content string) error {
	return c.Send(ctx, proto.InboundMessageSend, proto.SendMessageData{RoomID: roomID, Content: content})
}

// Read blocks for the next outbound frame.
func (c *Conn) Read(ctx context.Context) (Frame, error) {
	var f Frame
	if err := wsjson.Read(ctx, c.ws, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Close closes the connection normally.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}

// WebSocketURL derives the /ws endpoint from an http(s) base URL.
func WebSocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// IsClosed reports whether err marks a normal end of the connection.
func IsClosed(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
