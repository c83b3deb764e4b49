package serializer

import (
	"errors"
	"github.com/ValentinKolb/dList/rpc/common"
	"strings"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
	"Proto":  NewProtoSerializer,
}

// testMessages creates a set of test messages covering every value shape
func testMessages() []common.Message {
	return []common.Message{
		// Get request (absence marker)
		*common.NewGetRequest(),

		// Append request
		*common.NewAppendRequest("Hello"),

		// Append request with an empty string (must stay distinct from absence)
		*common.NewAppendRequest(""),

		// Unknown command with an argument
		*common.NewCallRequest("FOO", common.StringValue("bar")),

		// Result with a list
		*common.NewResultResponse(common.ListValue([]string{"Hello", "World"})),

		// Result with a list containing empty strings
		*common.NewResultResponse(common.ListValue([]string{"", "a", ""})),

		// Result with an empty list
		*common.NewResultResponse(common.ListValue([]string{})),

		// Unknown command result
		*common.NewResultResponse(common.StringValue(common.UnknownCommandResult("FOO"))),

		// Persistence failure carrying the snapshot
		*common.NewPersistErrorResponse(common.ListValue([]string{"a"}), errors.New("disk full")),

		// Error response
		*common.NewErrorResponse("test error message"),

		// Unicode
		*common.NewAppendRequest("grüße, 世界"),
	}
}

// messagesEqual compares two messages, treating nil and empty lists as equal
func messagesEqual(a, b common.Message) bool {
	return a.MsgType == b.MsgType &&
		a.Command == b.Command &&
		a.Err == b.Err &&
		a.Value.Equal(b.Value)
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !messagesEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestLargePayloadRoundTrip tests payloads far above a single 1024 byte read
func TestLargePayloadRoundTrip(t *testing.T) {
	large := strings.Repeat("0123456789abcdef", 1024) // 16 KB
	list := make([]string, 500)
	for i := range list {
		list[i] = large[:i]
	}

	messages := []common.Message{
		*common.NewAppendRequest(large),
		*common.NewResultResponse(common.ListValue(list)),
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()
			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Fatalf("Failed to serialize message %d: %v", i, err)
				}
				if len(data) <= 1024 {
					t.Fatalf("Expected payload > 1024 bytes, got %d", len(data))
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Fatalf("Failed to deserialize message %d: %v", i, err)
				}
				if !messagesEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip", i)
				}
			}
		})
	}
}

// TestAbsenceMarker tests that an absent argument never turns into an empty string and vice versa
func TestAbsenceMarker(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for _, arg := range []common.Value{common.NoValue(), common.StringValue("")} {
				data, err := serializer.Serialize(*common.NewCallRequest(common.CmdAppend, arg))
				if err != nil {
					t.Fatalf("Failed to serialize: %v", err)
				}
				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Fatalf("Failed to deserialize: %v", err)
				}
				if result.Value.Kind != arg.Kind {
					t.Errorf("Value kind mismatch: expected %s, got %s", arg.Kind, result.Value.Kind)
				}
			}
		})
	}
}

// TestDeserializeMalformed tests that every serializer reports invalid input as a malformed message
func TestDeserializeMalformed(t *testing.T) {
	invalid := []struct {
		name string
		msg  common.Message
	}{
		{name: "Unknown message type", msg: common.Message{MsgType: 99}},
		{name: "Call without command", msg: common.Message{MsgType: common.MsgTCall}},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			var msg common.Message
			if err := serializer.Deserialize([]byte{}, &msg); !errors.Is(err, common.ErrMalformedMessage) {
				t.Errorf("Empty data: expected malformed message error, got %v", err)
			}

			for _, tc := range invalid {
				data, err := serializer.Serialize(tc.msg)
				if err != nil {
					continue // refusing to encode is fine too
				}
				if err := serializer.Deserialize(data, &msg); !errors.Is(err, common.ErrMalformedMessage) {
					t.Errorf("%s: expected malformed message error, got %v", tc.name, err)
				}
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{2, 0}, // Only message type and flags, no value kind
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{2, 0, 0}, // Result without a value
			expectError: false,
		},
		{
			name:        "Invalid length for command",
			data:        []byte{1, 1, 0, 0, 0, 0, 5, 'G', 'E', 'T'}, // Claims command length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{2, 0, 1, 0, 0, 0, 10}, // Claims value length 10 but no bytes provided
			expectError: true,
		},
		{
			name:        "Huge list count",
			data:        []byte{2, 0, 2, 0xff, 0xff, 0xff, 0xff}, // Claims 4 billion elements
			expectError: true,
		},
		{
			name:        "Invalid value kind",
			data:        []byte{2, 0, 9},
			expectError: true,
		},
		{
			name:        "Trailing bytes",
			data:        []byte{2, 0, 0, 1, 2, 3},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
			if err != nil && !errors.Is(err, common.ErrMalformedMessage) {
				t.Errorf("Expected malformed message error, got %v", err)
			}
		})
	}
}
