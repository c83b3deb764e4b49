package serializer

import "github.com/ValentinKolb/dList/rpc/common"

// IRPCSerializer is the interface for all Message Serializers
type IRPCSerializer interface {
	// Serialize serializes a Message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize deserializes a byte array into a Message
	// It takes a byte array and a pointer to a Message as parameters
	// Any failure (corrupt, truncated or invalid data) is reported as common.ErrMalformedMessage
	Deserialize(b []byte, msg *common.Message) error
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// finishDeserialize classifies a decoding error as malformed and validates the decoded message
func finishDeserialize(name string, err error, msg *common.Message) error {
	if err == nil {
		err = msg.Validate()
	}
	if err != nil {
		return common.NewError(common.ErrKMalformedMessage, err, "%s: failed to deserialize message", name)
	}
	return nil
}
