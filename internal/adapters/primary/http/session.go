package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
	"github.com/fredcamaral/stackslider/internal/domain/services"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Gesture message types sent by the page
const (
	MessageDragStart = "drag_start"
	MessageDragMove  = "drag_move"
	MessageDragStop  = "drag_stop"
	MessageClick     = "click"
	MessageNext      = "next"
	MessagePrevious  = "previous"
)

// ClientMessage is a gesture forwarded by the page
type ClientMessage struct {
	Type string      `json:"type"`
	Data GestureData `json:"data"`
}

// GestureData carries the pointer displacement of a drag_move, in
// unscaled slide pixels
type GestureData struct {
	DY float64 `json:"dy"`
}

// Session is one websocket connection with its own carousel. The run
// goroutine is the only one touching the carousel; readPump and writePump
// only move bytes.
type Session struct {
	id       string
	conn     *websocket.Conn
	carousel *services.Carousel
	gallery  ports.GalleryService
	metrics  ports.Metrics
	logger   HTTPLogger

	inbound chan ClientMessage
	notices chan ports.UpdateEvent
	send    chan ports.UpdateEvent

	quit       chan struct{}
	quitOnce   sync.Once
	writerDone chan struct{}
	done       chan struct{}
}

func newSession(id string, conn *websocket.Conn, carousel *services.Carousel, gallery ports.GalleryService, logger HTTPLogger) *Session {
	return &Session{
		id:         id,
		conn:       conn,
		carousel:   carousel,
		gallery:    gallery,
		metrics:    ports.NopMetrics{},
		logger:     logger,
		inbound:    make(chan ClientMessage, 64),
		notices:    make(chan ports.UpdateEvent, 1),
		send:       make(chan ports.UpdateEvent, 64),
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Close ends the session's run loop, which closes the connection
func (s *Session) Close() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Done is closed once the run loop has exited
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// notify queues a server event. One pending notice is enough: a reload
// always reads the current gallery.
func (s *Session) notify(event ports.UpdateEvent) bool {
	select {
	case s.notices <- event:
		return true
	default:
		return false
	}
}

// start launches the pumps and the run loop
func (s *Session) start(ctx context.Context, onExit func()) {
	go s.writePump()
	go s.readPump()
	go func() {
		defer onExit()
		s.run(ctx)
	}()
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.send)
	defer s.carousel.Close()

	s.push(ports.EventTypeConnected)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-s.writerDone:
			return

		case msg, ok := <-s.inbound:
			if !ok {
				return
			}
			if s.apply(msg) {
				s.metrics.RecordGesture(msg.Type)
				s.push(ports.EventTypeRender)
			}

		case <-s.carousel.Ticks():
			if s.carousel.Step() {
				s.push(ports.EventTypeRender)
			}

		case event := <-s.notices:
			s.handleNotice(event)
		}
	}
}

// apply feeds one gesture to the carousel and reports whether it changed
func (s *Session) apply(msg ClientMessage) bool {
	switch msg.Type {
	case MessageDragStart:
		return s.carousel.DragStart()
	case MessageDragMove:
		return s.carousel.DragMove(msg.Data.DY)
	case MessageDragStop:
		return s.carousel.DragStop()
	case MessageClick:
		return s.carousel.Click()
	case MessageNext:
		return s.carousel.Next()
	case MessagePrevious:
		return s.carousel.Previous()
	default:
		s.logger.Debug("session %s: unknown message type %q", s.id, msg.Type)
		return false
	}
}

func (s *Session) handleNotice(event ports.UpdateEvent) {
	if event.Type != ports.EventTypeReload {
		s.enqueue(event)
		return
	}

	if g := s.gallery.Current(); g != nil {
		s.carousel.Reload(g.Slides)
	}
	s.enqueue(ports.UpdateEvent{Type: ports.EventTypeReload, Timestamp: time.Now()})
}

// push sends the carousel state as an event of the given type
func (s *Session) push(eventType string) {
	s.enqueue(ports.UpdateEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      s.carousel.State(),
	})
}

func (s *Session) enqueue(event ports.UpdateEvent) {
	select {
	case s.send <- event:
	case <-s.writerDone:
	}
}

// readPump decodes gestures from the page until the connection fails
func (s *Session) readPump() {
	defer close(s.inbound)

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("session %s: connection error: %v", s.id, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("session %s: invalid message: %v", s.id, err)
			continue
		}

		select {
		case s.inbound <- msg:
		case <-s.done:
			return
		}
	}
}

// writePump writes queued events and keeps the connection alive with pings
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.writerDone)
		_ = s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
