package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/models"
)

// RelayEvent is one change on the relays table pushed over the realtime
// socket: a counterpart's approve/reject/execute lands here without polling.
type RelayEvent struct {
	Kind  string // INSERT or UPDATE
	Relay models.Relay
}

// RelayEventHandler consumes relay change events.
type RelayEventHandler func(event RelayEvent)

// RelayFeed subscribes to the relays table over the Supabase realtime
// websocket (Phoenix channel protocol).
type RelayFeed struct {
	mu      sync.Mutex
	url     string
	conn    *websocket.Conn
	handler RelayEventHandler
	done    chan struct{}
	ref     int
}

const relayTopic = "realtime:public:relays"

func NewRelayFeed(cfg models.SupabaseConfig, handler RelayEventHandler) *RelayFeed {
	wsURL := cfg.URL
	if strings.HasPrefix(wsURL, "https") {
		wsURL = "wss" + wsURL[len("https"):]
	} else if strings.HasPrefix(wsURL, "http") {
		wsURL = "ws" + wsURL[len("http"):]
	}
	wsURL = strings.TrimSuffix(wsURL, "/") + "/realtime/v1/websocket?apikey=" + cfg.AnonKey + "&vsn=1.0.0"

	return &RelayFeed{
		url:     wsURL,
		handler: handler,
		done:    make(chan struct{}),
	}
}

// Start connects, joins the relays channel, and launches the read and
// heartbeat loops. The feed stops when ctx is cancelled or Stop is called.
func (f *RelayFeed) Start(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("realtime dial: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	if err := f.send(map[string]any{
		"topic":   relayTopic,
		"event":   "phx_join",
		"payload": map[string]any{},
		"ref":     f.nextRef(),
	}); err != nil {
		conn.Close()
		return fmt.Errorf("realtime join: %w", err)
	}

	go f.readLoop()
	go f.heartbeat()

	zap.L().Info("Relay realtime feed started", zap.String("topic", relayTopic))
	return nil
}

// Stop closes the socket and ends the loops.
func (f *RelayFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		return
	}
	close(f.done)

	_ = f.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	f.conn.Close()
	f.conn = nil
}

func (f *RelayFeed) nextRef() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ref++
	return fmt.Sprintf("%d", f.ref)
}

func (f *RelayFeed) send(msg map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("realtime feed not connected")
	}
	return f.conn.WriteJSON(msg)
}

type realtimeMessage struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload struct {
		Type   string          `json:"type"`
		Record json.RawMessage `json:"record"`
	} `json:"payload"`
}

func (f *RelayFeed) readLoop() {
	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.mu.Lock()
		conn := f.conn
		f.mu.Unlock()
		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			zap.L().Warn("Relay realtime feed closed", zap.Error(err))
			return
		}

		var msg realtimeMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Topic != relayTopic {
			continue
		}

		kind := msg.Event
		if msg.Payload.Type != "" {
			kind = msg.Payload.Type
		}
		if kind != "INSERT" && kind != "UPDATE" {
			continue
		}

		var relay models.Relay
		if err := json.Unmarshal(msg.Payload.Record, &relay); err != nil {
			zap.L().Warn("Unparseable relay change record", zap.Error(err))
			continue
		}

		if f.handler != nil {
			go f.handler(RelayEvent{Kind: kind, Relay: relay})
		}
	}
}

func (f *RelayFeed) heartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			err := f.send(map[string]any{
				"topic":   "phoenix",
				"event":   "heartbeat",
				"payload": map[string]any{},
				"ref":     f.nextRef(),
			})
			if err != nil {
				return
			}
		}
	}
}
