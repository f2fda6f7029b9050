package server

import (
	"log/slog"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/statekit-dev/statekit/pkg/protocol"
)

// conn is one sync session. All writes to the socket go through the send
// queue; the writer goroutine is the only caller of WriteMessage, as
// gorilla/websocket allows a single concurrent writer.
type conn struct {
	ws     *websocket.Conn
	target SyncTarget
	logger *slog.Logger

	send chan []byte
	seq  atomic.Uint64
}

func newConn(ws *websocket.Conn, target SyncTarget, sendBuffer int, logger *slog.Logger) *conn {
	return &conn{
		ws:     ws,
		target: target,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
	}
}

// run drives the session and returns when the peer disconnects.
func (c *conn) run() {
	defer c.ws.Close()

	if !c.handshake() {
		return
	}

	writerDone := make(chan struct{})
	go c.writeLoop(writerDone)

	// Initial state, then one frame per committed transition.
	if !c.pushState() {
		close(c.send)
		<-writerDone
		return
	}
	cancel := c.target.Subscribe(func(stateJSON []byte) {
		c.enqueueState(stateJSON)
	})

	c.readLoop()

	cancel()
	close(c.send)
	<-writerDone
}

// handshake reads the hello frame. The store named in hello must be the one
// this endpoint serves.
func (c *conn) handshake() bool {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return false
	}

	frame, err := protocol.Decode(data)
	if err != nil {
		c.writeNow(protocol.EncodeError(0, err))
		return false
	}

	hello, ok := frame.(*protocol.Hello)
	if !ok {
		c.writeNow(protocol.Error{
			Code:    "E041",
			Message: "expected hello frame",
		})
		return false
	}
	if hello.Store != c.target.Name() {
		c.writeNow(protocol.Error{
			Code:    "E041",
			Message: "hello names a different store than this endpoint serves",
		})
		return false
	}

	return true
}

// readLoop handles inbound frames until the connection drops.
func (c *conn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("connection closed", "error", err)
			}
			return
		}

		frame, err := protocol.Decode(data)
		if err != nil {
			c.enqueueError(protocol.EncodeError(0, err))
			continue
		}

		switch f := frame.(type) {
		case *protocol.Dispatch:
			if err := c.target.Dispatch(f.Action); err != nil {
				c.enqueueError(protocol.EncodeError(f.Seq, err))
			}
			// Success is answered by the state frame from the
			// subscription, not by an ack.

		default:
			c.enqueueError(protocol.Error{
				Code:    "E041",
				Message: "unexpected frame type",
			})
		}
	}
}

func (c *conn) writeLoop(done chan<- struct{}) {
	defer close(done)
	for data := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// pushState sends the target's current state as the first frame.
func (c *conn) pushState() bool {
	stateJSON, err := c.target.StateJSON()
	if err != nil {
		c.logger.Error("state serialization failed", "error", err)
		return false
	}
	c.enqueueState(stateJSON)
	return true
}

func (c *conn) enqueueState(stateJSON []byte) {
	frame := protocol.State{
		Seq:   c.seq.Add(1),
		State: stateJSON,
	}
	data, err := protocol.Encode(frame)
	if err != nil {
		c.logger.Error("frame encoding failed", "error", err)
		return
	}
	c.enqueue(data)
}

func (c *conn) enqueueError(frame protocol.Error) {
	data, err := protocol.Encode(frame)
	if err != nil {
		c.logger.Error("frame encoding failed", "error", err)
		return
	}
	c.enqueue(data)
}

func (c *conn) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		// Slow client. Drop the frame; state frames are self-contained so
		// a newer one supersedes anything dropped.
		c.logger.Warn("send queue full, dropping frame")
	}
}

// writeNow writes a frame before the writer goroutine exists (handshake
// failures only).
func (c *conn) writeNow(frame protocol.Frame) {
	data, err := protocol.Encode(frame)
	if err != nil {
		return
	}
	c.ws.WriteMessage(websocket.TextMessage, data)
}
