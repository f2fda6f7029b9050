package protocol

import "encoding/json"

// Version is the protocol version. Bumped on incompatible frame changes.
const Version = 1

// FrameType tags the envelope.
type FrameType string

const (
	FrameHello    FrameType = "hello"
	FrameState    FrameType = "state"
	FrameDispatch FrameType = "dispatch"
	FrameError    FrameType = "error"
)

// Frame is implemented by every frame payload.
type Frame interface {
	FrameType() FrameType
}

// Hello opens a session. The client names the store it wants to observe.
type Hello struct {
	// Store is the name of the store to attach to.
	Store string `json:"store"`

	// Version is the client's protocol version.
	Version int `json:"version"`
}

func (Hello) FrameType() FrameType { return FrameHello }

// State carries a committed store state. The server sends one immediately
// after hello and another after every transition.
type State struct {
	// Seq increases by one per committed transition within a session.
	Seq uint64 `json:"seq"`

	// State is the JSON-encoded store state.
	State json.RawMessage `json:"state"`
}

func (State) FrameType() FrameType { return FrameState }

// Dispatch asks the server to dispatch an action by its wire tag.
type Dispatch struct {
	// Seq echoes back in the error frame if the dispatch is rejected.
	Seq uint64 `json:"seq"`

	// Action is the action's wire tag, e.g. "INCREMENT".
	Action string `json:"action"`
}

func (Dispatch) FrameType() FrameType { return FrameDispatch }

// Error reports a rejected frame or dispatch.
type Error struct {
	// Seq is the sequence of the dispatch this error answers, 0 when the
	// error is not tied to a dispatch.
	Seq uint64 `json:"seq,omitempty"`

	// Code is the stable error code, e.g. "E002".
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

func (Error) FrameType() FrameType { return FrameError }
