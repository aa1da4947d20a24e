package bridge

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/component"
)

// FrameType discriminates frames.
type FrameType string

// Client to server frames.
const (
	FrameHello    FrameType = "hello"
	FrameNavigate FrameType = "navigate"
	FramePopState FrameType = "popstate"
	FrameEvent    FrameType = "event"
)

// Server to client frames.
const (
	FramePush    FrameType = "push"
	FrameReplace FrameType = "replace"
	FrameHTML    FrameType = "html"
	FrameListen  FrameType = "listen"
	FrameError   FrameType = "error"
)

// RootTarget is the id of the application's mount point.
const RootTarget = "root"

// Frame is one protocol message.
type Frame struct {
	Type    FrameType `json:"type"`
	Path    string    `json:"path,omitempty"`
	Target  string    `json:"target,omitempty"`
	HTML    string    `json:"html,omitempty"`
	Message string    `json:"message,omitempty"`

	// Delegated DOM events: listen frames carry Event and Selector, event
	// frames add the matched element's ID and the submitted form Values.
	Event    string            `json:"event,omitempty"`
	Selector string            `json:"selector,omitempty"`
	ID       string            `json:"id,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
}

// PushFrame asks the client to push path onto its history.
func PushFrame(path string) *Frame {
	return &Frame{Type: FramePush, Path: path}
}

// ReplaceFrame asks the client to replace its current history entry with path.
func ReplaceFrame(path string) *Frame {
	return &Frame{Type: FrameReplace, Path: path}
}

// ListenFrame asks the client to delegate events of eventType on elements
// matching selector inside target back to the server.
func ListenFrame(target, eventType, selector string) *Frame {
	return &Frame{Type: FrameListen, Target: target, Event: eventType, Selector: selector}
}

// HTMLFrame asks the client to replace the inner markup of target.
func HTMLFrame(target, html string) *Frame {
	return &Frame{Type: FrameHTML, Target: target, HTML: html}
}

// ErrorFrame reports a diagnostic to the client.
func ErrorFrame(msg string) *Frame {
	return &Frame{Type: FrameError, Message: msg}
}

// Encode serializes the frame.
func (f *Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// Inbound reports whether the frame is one a client may send.
func (f *Frame) Inbound() bool {
	switch f.Type {
	case FrameHello, FrameNavigate, FramePopState, FrameEvent:
		return true
	}
	return false
}

// DOMEvent converts an event frame to the event its listener receives.
func (f *Frame) DOMEvent() component.Event {
	return component.Event{
		Type:     f.Event,
		Selector: f.Selector,
		ID:       f.ID,
		Values:   f.Values,
	}
}

// DecodeFrame parses and validates a client frame. Only inbound frame types
// are accepted. Event frames must name their target, event type and
// selector; the other frames must carry an absolute path.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.New(errors.CodeInvalidFrame).
			WithDetail("frame is not a JSON object").
			Wrap(err)
	}
	if !f.Inbound() {
		return nil, errors.New(errors.CodeInvalidFrame).
			WithDetailf("unexpected frame type %q", f.Type)
	}
	if f.Type == FrameEvent {
		if f.Target == "" || f.Event == "" || f.Selector == "" {
			return nil, errors.New(errors.CodeInvalidFrame).
				WithDetail("event frame needs target, event and selector")
		}
		return &f, nil
	}
	if !strings.HasPrefix(f.Path, "/") {
		return nil, errors.New(errors.CodeInvalidFrame).
			WithDetailf("%s frame path %q is not absolute", f.Type, f.Path)
	}
	return &f, nil
}
