package serializer

import (
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"math"
)

// NewProtoSerializer creates a new serializer using the protobuf wire format.
// Messages are mapped onto the well known google.protobuf.Struct type, so no
// generated code is required and any protobuf runtime can read the payload.
func NewProtoSerializer() IRPCSerializer {
	return &protoSerializerImpl{}
}

// protoSerializerImpl implements the IRPCSerializer interface using protobuf encoding
type protoSerializerImpl struct {
}

// Field names of the encoded struct
const (
	protoFieldType    = "type"
	protoFieldKind    = "kind"
	protoFieldCommand = "command"
	protoFieldStr     = "str"
	protoFieldList    = "list"
	protoFieldErr     = "err"
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (p protoSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	fields := map[string]*structpb.Value{
		protoFieldType: structpb.NewNumberValue(float64(msg.MsgType)),
		protoFieldKind: structpb.NewNumberValue(float64(msg.Value.Kind)),
	}

	if msg.Command != "" {
		fields[protoFieldCommand] = structpb.NewStringValue(msg.Command)
	}

	switch msg.Value.Kind {
	case common.ValKNone:
	case common.ValKString:
		fields[protoFieldStr] = structpb.NewStringValue(msg.Value.Str)
	case common.ValKList:
		values := make([]*structpb.Value, len(msg.Value.List))
		for i, s := range msg.Value.List {
			values[i] = structpb.NewStringValue(s)
		}
		fields[protoFieldList] = structpb.NewListValue(&structpb.ListValue{Values: values})
	default:
		return nil, fmt.Errorf("invalid value kind %d", msg.Value.Kind)
	}

	if msg.Err != "" {
		fields[protoFieldErr] = structpb.NewStringValue(msg.Err)
	}

	return proto.Marshal(&structpb.Struct{Fields: fields})
}

func (p protoSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	*msg = common.Message{}
	return finishDeserialize("proto", p.decode(b, msg), msg)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (p protoSerializerImpl) decode(b []byte, msg *common.Message) error {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return err
	}

	msgType, err := protoByte(&s, protoFieldType)
	if err != nil {
		return err
	}
	kind, err := protoByte(&s, protoFieldKind)
	if err != nil {
		return err
	}
	msg.MsgType = common.MessageType(msgType)
	msg.Value.Kind = common.ValueKind(kind)

	if msg.Command, err = protoString(&s, protoFieldCommand); err != nil {
		return err
	}
	if msg.Err, err = protoString(&s, protoFieldErr); err != nil {
		return err
	}

	switch msg.Value.Kind {
	case common.ValKNone:
	case common.ValKString:
		if msg.Value.Str, err = protoString(&s, protoFieldStr); err != nil {
			return err
		}
	case common.ValKList:
		v, ok := s.Fields[protoFieldList]
		if !ok {
			return nil // empty list
		}
		list, ok := v.Kind.(*structpb.Value_ListValue)
		if !ok || list.ListValue == nil {
			return fmt.Errorf("field %q is not a list", protoFieldList)
		}
		msg.Value.List = make([]string, len(list.ListValue.Values))
		for i, item := range list.ListValue.Values {
			str, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return fmt.Errorf("element %d of %q is not a string", i, protoFieldList)
			}
			msg.Value.List[i] = str.StringValue
		}
	default:
		return fmt.Errorf("invalid value kind %d", msg.Value.Kind)
	}

	return nil
}

// protoByte reads a required numeric field that must hold a small integer
func protoByte(s *structpb.Struct, name string) (uint8, error) {
	v, ok := s.Fields[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	num, ok := v.Kind.(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	n := num.NumberValue
	if n < 0 || n > math.MaxUint8 || n != math.Trunc(n) {
		return 0, fmt.Errorf("field %q out of range: %v", name, n)
	}
	return uint8(n), nil
}

// protoString reads an optional string field, a missing field is the empty string
func protoString(s *structpb.Struct, name string) (string, error) {
	v, ok := s.Fields[name]
	if !ok {
		return "", nil
	}
	str, ok := v.Kind.(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", name)
	}
	return str.StringValue, nil
}
