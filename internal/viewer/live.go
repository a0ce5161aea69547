package viewer

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/missionview/internal/outline"
	"github.com/ziadkadry99/missionview/internal/scrollspy"
)

// writeWait bounds one websocket write so a stalled page cannot hold up
// the document's other listeners.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type    string             `json:"type"` // "scroll" or "offset"
	Scroll  float64            `json:"scroll"`
	Anchors map[string]float64 `json:"anchors,omitempty"`
	Offset  float64            `json:"offset"`
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type    string          `json:"type"` // "active", "content" or "error"
	Active  string          `json:"active,omitempty"`
	Version int             `json:"version,omitempty"`
	Text    string          `json:"text,omitempty"`
	HTML    string          `json:"html,omitempty"`
	TOC     template.HTML   `json:"toc,omitempty"`
	Outline outline.Outline `json:"outline,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// liveConn serialises writes; document listeners and the read loop both send.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *liveConn) send(msg serverMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("viewer: websocket write: %v", err)
	}
}

// close sends a close frame with reason and shuts the connection, which ends
// the read loop.
func (c *liveConn) close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.conn.Close()
}

// handleWebSocket streams document changes and the active heading to one
// page. The page reports its scroll position and anchor geometry; the server
// answers with an "active" message whenever the heading in view changes and
// with a "content" message after every checklist toggle.
func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, lookupStatus(err), err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viewer: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()
	c := &liveConn{conn: conn}

	var (
		browser scrollspy.Browser
		signal  scrollspy.Signal
	)
	spy := scrollspy.New(&browser, s.Doc.Snapshot().Outline, v.offset, func(id string) {
		c.send(serverMessage{Type: "active", Active: id})
	})
	detach := spy.Attach(&signal)
	defer detach()

	cancel := s.Doc.OnChange(func(string) {
		snap := s.Doc.Snapshot()
		toc, err := v.panel.HTML(snap.Outline, spy.Active())
		if err != nil {
			log.Printf("viewer: %v", err)
		}
		c.send(serverMessage{
			Type:    "content",
			Version: snap.Version,
			Text:    snap.Text,
			HTML:    snap.HTML,
			TOC:     toc,
			Outline: snap.Outline,
		})
		spy.SetOutline(snap.Outline)
	})
	defer cancel()

	c.send(serverMessage{Type: "active", Active: spy.Active()})

	// An evicted session's Doc no longer receives toggles; close the socket
	// so the page reconnects and picks up the reopened document.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.Done():
			c.close("document closed")
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("viewer: websocket read: %v", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.send(serverMessage{Type: "error", Error: "invalid message format"})
			continue
		}

		switch msg.Type {
		case "scroll":
			browser.Set(scrollspy.Geometry{Scroll: msg.Scroll, Anchors: msg.Anchors})
			signal.Notify()
		case "offset":
			if msg.Offset < 0 {
				c.send(serverMessage{Type: "error", Error: "offset must not be negative"})
				continue
			}
			spy.SetOffset(msg.Offset)
		default:
			c.send(serverMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}
