// Package message defines the envelope exchanged between the clipdiff CLI
// and agent processes over the local IPC socket.
//
// Each message is exactly one line of JSON: <json>\n
package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of message.
type Type string

const (
	// TypeDispatch carries a URI-originated diff request to an agent.
	TypeDispatch Type = "DISPATCH"
	// TypeFocus tells an agent its window gained foreground focus.
	TypeFocus Type = "FOCUS"
	// TypeStatus requests agent metadata.
	TypeStatus Type = "STATUS"

	TypeStatusResponse Type = "STATUS_RESPONSE"
	// TypeResult acknowledges a dispatch or focus with its routing outcome.
	TypeResult Type = "RESULT"
	TypeError  Type = "ERROR"
)

// AgentInfo carries metadata about a running agent, used in STATUS responses.
type AgentInfo struct {
	ID            string    `json:"id"`
	PID           int       `json:"pid"`
	Window        string    `json:"window"`
	Roots         []string  `json:"roots,omitempty"`
	WorkspaceFile string    `json:"workspace_file,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FocusedAt     time.Time `json:"focused_at"`
}

// Message is the top-level wire envelope.
type Message struct {
	Type Type `json:"type"`

	// DISPATCH — the file to diff against the clipboard
	FilePath string `json:"filePath,omitempty"`

	// RESULT — how the request was routed, plus an optional informational
	// notice for the user (e.g. empty clipboard)
	Outcome string `json:"outcome,omitempty"`
	Notice  string `json:"notice,omitempty"`

	// STATUS_RESPONSE
	Agent *AgentInfo `json:"agent,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}
