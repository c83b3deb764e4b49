package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Command Names
// --------------------------------------------------------------------------

// Command names understood by the server. The command is transmitted as a plain
// string so that names the server does not know can still be decoded and answered.
const (
	CmdAppend = "APPEND" // Append a value to the shared list (argument: string)
	CmdGet    = "GET"    // Read the whole shared list (argument: none)
)

// UnknownCommandPrefix is the prefix of the string result returned for unknown commands
const UnknownCommandPrefix = "Unknown command:"

// UnknownCommandResult builds the result text for a command the server does not know
func UnknownCommandResult(name string) string {
	return fmt.Sprintf("%s %s", UnknownCommandPrefix, name)
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// ValueKind tags which shape a Value holds.
type ValueKind uint8

const (
	ValKNone   ValueKind = iota // Absence marker (e.g. the argument of GET)
	ValKString                  // A single string
	ValKList                    // An ordered sequence of strings
)

// String returns the string representation of a ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValKNone:
		return "none"
	case ValKString:
		return "string"
	case ValKList:
		return "list"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the known kinds
func (k ValueKind) Valid() bool {
	return k <= ValKList
}

// Value is the opaque payload carried by requests (the argument) and responses (the result).
// Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	List []string  `json:"list,omitempty"`
}

// NoValue returns the absence marker
func NoValue() Value {
	return Value{Kind: ValKNone}
}

// StringValue wraps a single string
func StringValue(s string) Value {
	return Value{Kind: ValKString, Str: s}
}

// ListValue wraps an ordered sequence of strings
func ListValue(list []string) Value {
	return Value{Kind: ValKList, List: list}
}

// IsNone reports whether v is the absence marker
func (v Value) IsNone() bool {
	return v.Kind == ValKNone
}

// Equal compares two values by shape and content. A nil and an empty list are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValKString:
		return v.Str == o.Str
	case ValKList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
	}
	return true
}

// String returns a printable form of the value
func (v Value) String() string {
	switch v.Kind {
	case ValKNone:
		return "<none>"
	case ValKString:
		return fmt.Sprintf("%q", v.Str)
	case ValKList:
		return fmt.Sprintf("%q", v.List)
	default:
		return "<invalid>"
	}
}

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request only fields
	Command string `json:"command,omitempty"` // Name of the command to execute

	// General fields
	Value Value `json:"value"` // Argument (request) or result (response)

	// Response only fields
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message
}

// Validate checks the rules a decoded message must satisfy
func (m *Message) Validate() error {
	if m.MsgType == MsgTUnknown || m.MsgType > MsgTPersistError {
		return fmt.Errorf("invalid message type %d", m.MsgType)
	}
	if !m.Value.Kind.Valid() {
		return fmt.Errorf("invalid value kind %d", m.Value.Kind)
	}
	if m.MsgType == MsgTCall && m.Command == "" {
		return fmt.Errorf("call without command name")
	}
	return nil
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewCallRequest creates a request invoking the named command
func NewCallRequest(command string, arg Value) *Message {
	return &Message{
		MsgType: MsgTCall,
		Command: command,
		Value:   arg,
	}
}

// NewAppendRequest creates a new Append request
func NewAppendRequest(value string) *Message {
	return NewCallRequest(CmdAppend, StringValue(value))
}

// NewGetRequest creates a new Get request
func NewGetRequest() *Message {
	return NewCallRequest(CmdGet, NoValue())
}

// NewResultResponse creates a successful response carrying value
func NewResultResponse(value Value) *Message {
	return &Message{
		MsgType: MsgTResult,
		Value:   value,
	}
}

// NewPersistErrorResponse creates a response for a mutation that was applied in memory
// but could not be written to durable storage
func NewPersistErrorResponse(value Value, err error) *Message {
	return &Message{
		MsgType: MsgTPersistError,
		Value:   value,
		Err:     err.Error(),
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTCall:
		return "call"
	case MsgTResult:
		return "result"
	case MsgTError:
		return "error"
	case MsgTPersistError:
		return "persistError"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "call":
		*t = MsgTCall
	case "result":
		*t = MsgTResult
	case "error":
		*t = MsgTError
	case "persistError":
		*t = MsgTPersistError
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	MsgTUnknown      MessageType = iota
	MsgTCall                     // A command invocation (request)
	MsgTResult                   // A successful result (response)
	MsgTError                    // The request could not be executed (response)
	MsgTPersistError             // Mutation applied in memory but not persisted (response)
)
