package http

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/query"
	"github.com/rentloop/rentloop/internal/core/usecases"
	"github.com/rentloop/rentloop/internal/pkg/metrics"
)

// wsMessage is sent from client to drive its filter session.
type wsMessage struct {
	Action    string `json:"action"`    // "edit" | "search" | "state"
	Dimension string `json:"dimension"` // filter dimension for "edit"
	Value     string `json:"value"`     // raw widget value
	Bound     string `json:"bound"`     // "min" | "max" | "" for paired dimensions
	Text      string `json:"text"`      // free text for "search"
}

// wsSink pushes canonical query strings back to the client. It
// replaces the client's current URL; one message per coalesced sync.
type wsSink struct {
	write func(v interface{}) error
}

func (s *wsSink) Push(q string) {
	_ = s.write(map[string]string{"type": "url", "query": q})
}

// FilterSessionHandler returns a handler that upgrades to WebSocket
// and runs a server-side filter session for the client. Edits are
// applied immediately; URL syncs are debounced and coalesced. New
// listings arriving over NATS are relayed when they match the
// session's current filters.
// Clients send JSON: {"action":"edit","dimension":"priceRange","value":"1000","bound":"min"}
// or {"action":"search","text":"Seattle"}.
func FilterSessionHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		log.Printf("ws filter session connected: %s", remoteAddr)
		metrics.ActiveFilterSessions.Inc()
		defer metrics.ActiveFilterSessions.Dec()

		var mu sync.Mutex

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// Seed the session from the query string the client connected
		// with, so a shared URL restores its filters.
		initial := filter.DecodeQuery(c.Query("q"))
		sess := usecases.NewFilterSession(initial, &wsSink{write: writeJSON}, deps.Geocoder, deps.SyncWindow)
		defer sess.Close()

		// Relay listings posted while the session is open, filtered by
		// the session's current predicates.
		var sub *nats.Subscription
		if deps.NATS != nil {
			var err error
			sub, err = deps.NATS.Subscribe("rentals.property.created", func(msg *nats.Msg) {
				var p domain.Property
				if err := json.Unmarshal(msg.Data, &p); err != nil {
					return
				}
				preds := query.Compile(sess.State(), query.Options{})
				if !preds.Matches(&p) {
					return
				}
				_ = writeJSON(map[string]interface{}{"type": "listing", "property": p})
			})
			if err != nil {
				log.Printf("ws listing subscribe error: %v", err)
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read client messages
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "edit":
				if m.Dimension == "" {
					_ = writeJSON(map[string]string{"error": "dimension is required"})
					continue
				}
				sess.ApplyEdit(m.Dimension, m.Value, usecases.ParseBound(m.Bound))

			case "search":
				if m.Text == "" {
					_ = writeJSON(map[string]string{"error": "text is required"})
					continue
				}
				sess.SearchLocation(context.Background(), m.Text)

			case "state":
				_ = writeJSON(map[string]interface{}{
					"type":  "state",
					"query": filter.EncodeQuery(sess.State()),
				})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		if sub != nil {
			_ = sub.Unsubscribe()
		}
		log.Printf("ws filter session disconnected: %s", remoteAddr)
	}
}
