// Package network serves single-player game sessions over websockets.
// Remote players send JSON input messages; the server answers with a
// msgpack-encoded engine.Frame every tick.
package network

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/validation"
)

// MessageInput is the only message type players send
const MessageInput = "input"

// InputMessage carries the held keys and discrete events of a remote player.
// Clients send one whenever their input changes.
type InputMessage struct {
	Type     string `json:"type"`
	Forward  bool   `json:"forward,omitempty"`
	Backward bool   `json:"backward,omitempty"`
	Left     bool   `json:"left,omitempty"`
	Right    bool   `json:"right,omitempty"`
	Fire     bool   `json:"fire,omitempty"`
	Camera   int    `json:"camera,omitempty"`
	Restart  bool   `json:"restart,omitempty"`
}

// NewInputMessage builds the wire message for a snapshot
func NewInputMessage(in input.Snapshot) InputMessage {
	return InputMessage{
		Type:     MessageInput,
		Forward:  in.Forward,
		Backward: in.Backward,
		Left:     in.Left,
		Right:    in.Right,
		Fire:     in.Fire,
		Camera:   int(in.CameraSwitch),
		Restart:  in.Restart,
	}
}

// Validate checks the message type and camera mode
func (m InputMessage) Validate() error {
	if m.Type != MessageInput {
		return fmt.Errorf("%w: unknown message type %q", validation.ErrInvalidMessage, m.Type)
	}
	return validation.ValidateCameraMode(m.Camera)
}

// Snapshot converts the message into simulation input
func (m InputMessage) Snapshot() input.Snapshot {
	return input.Snapshot{
		Forward:      m.Forward,
		Backward:     m.Backward,
		Left:         m.Left,
		Right:        m.Right,
		Fire:         m.Fire,
		CameraSwitch: input.CameraMode(m.Camera),
		Restart:      m.Restart,
	}
}

// EncodeFrame serializes a frame for the wire
func EncodeFrame(frame *engine.Frame) ([]byte, error) {
	data, err := msgpack.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// DecodeFrame parses a frame written by EncodeFrame
func DecodeFrame(data []byte) (*engine.Frame, error) {
	var frame engine.Frame
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &frame, nil
}
