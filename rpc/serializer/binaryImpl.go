package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format:
//
//	[0]    MsgType
//	[1]    flags (which optional fields follow)
//	[2]    value kind
//	...    command (if hasCommand): uint32 length + bytes
//	...    value: string -> uint32 length + bytes, list -> uint32 count + count * (uint32 length + bytes)
//	...    err (if hasErr): uint32 length + bytes
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasCommand byte = 1 << 0
	hasErr     byte = 1 << 1
)

const binaryHeaderSize = 3

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if !msg.Value.Kind.Valid() {
		return nil, fmt.Errorf("invalid value kind %d", msg.Value.Kind)
	}

	// Calculate total size needed
	result := make([]byte, binaryHeaderSize, b.sizeBytes(msg))

	result[0] = byte(msg.MsgType)
	result[2] = byte(msg.Value.Kind)

	var flags byte = 0

	if msg.Command != "" {
		flags |= hasCommand
		result = appendString(result, msg.Command)
	}

	switch msg.Value.Kind {
	case common.ValKString:
		result = appendString(result, msg.Value.Str)
	case common.ValKList:
		result = binary.BigEndian.AppendUint32(result, uint32(len(msg.Value.List)))
		for _, s := range msg.Value.List {
			result = appendString(result, s)
		}
	}

	if msg.Err != "" {
		flags |= hasErr
		result = appendString(result, msg.Err)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	*msg = common.Message{}
	return finishDeserialize("binary", b.decode(data, msg), msg)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (b binarySerializerImpl) decode(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags + kind)
	if len(data) < binaryHeaderSize {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	msg.Value.Kind = common.ValueKind(data[2])

	r := reader{data: data, pos: binaryHeaderSize}
	var err error

	if flags&hasCommand != 0 {
		if msg.Command, err = r.string("command"); err != nil {
			return err
		}
	}

	switch msg.Value.Kind {
	case common.ValKNone:
	case common.ValKString:
		if msg.Value.Str, err = r.string("value"); err != nil {
			return err
		}
	case common.ValKList:
		count, err := r.uint32("list count")
		if err != nil {
			return err
		}
		// every element needs at least its length prefix
		if int(count) > r.remaining()/4 {
			return fmt.Errorf("list count %d exceeds available data", count)
		}
		msg.Value.List = make([]string, count)
		for i := range msg.Value.List {
			if msg.Value.List[i], err = r.string("list element"); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid value kind %d", msg.Value.Kind)
	}

	if flags&hasErr != 0 {
		if msg.Err, err = r.string("error"); err != nil {
			return err
		}
	}

	if r.remaining() != 0 {
		return fmt.Errorf("%d trailing bytes after message", r.remaining())
	}
	return nil
}

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := binaryHeaderSize

	if msg.Command != "" {
		size += 4 + len(msg.Command)
	}
	switch msg.Value.Kind {
	case common.ValKString:
		size += 4 + len(msg.Value.Str)
	case common.ValKList:
		size += 4
		for _, s := range msg.Value.List {
			size += 4 + len(s)
		}
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

// appendString appends a length prefixed string
func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// reader is a bounds checked cursor over a byte slice
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) uint32(field string) (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("data too short for %s length", field)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) string(field string) (string, error) {
	n, err := r.uint32(field)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.remaining()) {
		return "", fmt.Errorf("data too short for %s data", field)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
