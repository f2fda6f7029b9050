package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statekit-dev/statekit/pkg/store"
)

func TestEncodeDecodeHello(t *testing.T) {
	data, err := Encode(Hello{Store: "counter", Version: Version})
	require.NoError(t, err)

	frame, err := Decode(data)
	require.NoError(t, err)

	hello, ok := frame.(*Hello)
	require.True(t, ok, "expected *Hello, got %T", frame)
	assert.Equal(t, "counter", hello.Store)
	assert.Equal(t, Version, hello.Version)
}

func TestEncodeDecodeState(t *testing.T) {
	data, err := Encode(State{Seq: 7, State: json.RawMessage(`{"count":3}`)})
	require.NoError(t, err)

	frame, err := Decode(data)
	require.NoError(t, err)

	state, ok := frame.(*State)
	require.True(t, ok, "expected *State, got %T", frame)
	assert.Equal(t, uint64(7), state.Seq)
	assert.JSONEq(t, `{"count":3}`, string(state.State))
}

func TestEncodeDecodeDispatch(t *testing.T) {
	data, err := Encode(Dispatch{Seq: 2, Action: "INCREMENT"})
	require.NoError(t, err)

	frame, err := Decode(data)
	require.NoError(t, err)

	d, ok := frame.(*Dispatch)
	require.True(t, ok, "expected *Dispatch, got %T", frame)
	assert.Equal(t, "INCREMENT", d.Action)
}

func TestDecodeUnknownFrameType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport","payload":{}}`))
	require.Error(t, err)

	var unknown *UnknownFrameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, FrameType("teleport"), unknown.Type)
	assert.Contains(t, err.Error(), "E040")
}

func TestDecodeMalformedEnvelope(t *testing.T) {
	_, err := Decode([]byte(`{"type":`))
	require.Error(t, err)

	var malformed *MalformedFrameError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "E041")
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"type":"dispatch","payload":{"seq":"not a number"}}`))
	require.Error(t, err)

	var malformed *MalformedFrameError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, FrameDispatch, malformed.Type)
}

func TestDecodeEmptyPayload(t *testing.T) {
	frame, err := Decode([]byte(`{"type":"hello"}`))
	require.NoError(t, err)

	hello, ok := frame.(*Hello)
	require.True(t, ok)
	assert.Empty(t, hello.Store)
}

func TestEncodeErrorCarriesCode(t *testing.T) {
	frame := EncodeError(4, store.NewUnhandledActionError(nil))
	assert.Equal(t, uint64(4), frame.Seq)
	assert.Equal(t, "E002", frame.Code)
	assert.NotEmpty(t, frame.Message)
}

func TestEncodeErrorPlainError(t *testing.T) {
	frame := EncodeError(0, assert.AnError)
	assert.Empty(t, frame.Code)
	assert.Equal(t, assert.AnError.Error(), frame.Message)
}

func TestErrorFrameRoundTrip(t *testing.T) {
	data, err := Encode(Error{Seq: 9, Code: "E002", Message: "unsupported action"})
	require.NoError(t, err)

	frame, err := Decode(data)
	require.NoError(t, err)

	e, ok := frame.(*Error)
	require.True(t, ok)
	assert.Equal(t, "E002", e.Code)
	assert.Equal(t, uint64(9), e.Seq)
}
