package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

// envelope is the wire representation of every frame.
type envelope struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UnknownFrameError is returned by Decode for a type outside the protocol.
type UnknownFrameError struct {
	Type FrameType
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("%s: %q", ierrors.New("E040"), e.Type)
}

// Coded returns the registry entry for this failure.
func (e *UnknownFrameError) Coded() *ierrors.Error {
	return ierrors.New("E040").WithDetail("frame type: %q", e.Type)
}

// MalformedFrameError is returned by Decode when a payload cannot be parsed.
type MalformedFrameError struct {
	Type FrameType
	Err  error
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("%s: %v", ierrors.New("E041"), e.Err)
}

func (e *MalformedFrameError) Unwrap() error {
	return e.Err
}

// Coded returns the registry entry for this failure.
func (e *MalformedFrameError) Coded() *ierrors.Error {
	return ierrors.New("E041").Wrap(e.Err)
}

// Encode serializes a frame into its envelope.
func Encode(f Frame) ([]byte, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		Type:    f.FrameType(),
		Payload: payload,
	})
}

// Decode parses an envelope and returns the typed frame.
// An unregistered type yields an UnknownFrameError, an unparseable envelope
// or payload a MalformedFrameError.
func Decode(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &MalformedFrameError{Err: err}
	}

	var frame Frame
	switch env.Type {
	case FrameHello:
		frame = &Hello{}
	case FrameState:
		frame = &State{}
	case FrameDispatch:
		frame = &Dispatch{}
	case FrameError:
		frame = &Error{}
	default:
		return nil, &UnknownFrameError{Type: env.Type}
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, frame); err != nil {
			return nil, &MalformedFrameError{Type: env.Type, Err: err}
		}
	}

	return frame, nil
}

// EncodeError builds an error frame from a coded error, falling back to an
// uncoded message for plain errors.
func EncodeError(seq uint64, err error) Error {
	frame := Error{
		Seq:     seq,
		Message: err.Error(),
	}
	var coded interface{ Coded() *ierrors.Error }
	if errors.As(err, &coded) {
		frame.Code = coded.Coded().Code
	}
	return frame
}
