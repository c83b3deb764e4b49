package client

import (
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

// fakeTransport answers every request with a fixed response (or error)
type fakeTransport struct {
	resp     []byte
	err      error
	requests [][]byte
}

func (f *fakeTransport) Connect(common.ClientConfig) error { return nil }
func (f *fakeTransport) Close() error                      { return nil }

func (f *fakeTransport) Send(req []byte) ([]byte, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

// newFakeList creates a client whose transport always answers with msg
func newFakeList(t *testing.T, msg *common.Message) (*RPCList, *fakeTransport) {
	t.Helper()
	s := serializer.NewBinarySerializer()
	data, err := s.Serialize(*msg)
	require.NoError(t, err)

	tr := &fakeTransport{resp: data}
	c, err := NewRPCList(common.ClientConfig{Endpoint: "fake"}, tr, s)
	require.NoError(t, err)
	return c, tr
}

func TestAppendSendsRequest(t *testing.T) {
	c, tr := newFakeList(t, common.NewResultResponse(common.ListValue([]string{"x"})))

	values, err := c.Append("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, values)

	require.Len(t, tr.requests, 1)
	var req common.Message
	require.NoError(t, serializer.NewBinarySerializer().Deserialize(tr.requests[0], &req))
	assert.Equal(t, common.MsgTCall, req.MsgType)
	assert.Equal(t, common.CmdAppend, req.Command)
	assert.True(t, common.StringValue("x").Equal(req.Value))
}

func TestGetEmptyList(t *testing.T) {
	c, _ := newFakeList(t, common.NewResultResponse(common.ListValue(nil)))

	values, err := c.Get()
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestCallResults(t *testing.T) {
	testCases := []struct {
		name    string
		resp    *common.Message
		list    []string
		text    string
		unknown bool
	}{
		{
			name: "List",
			resp: common.NewResultResponse(common.ListValue([]string{"a", "b"})),
			list: []string{"a", "b"},
		},
		{
			name:    "Unknown command",
			resp:    common.NewResultResponse(common.StringValue("Unknown command: FOO")),
			text:    "Unknown command: FOO",
			unknown: true,
		},
		{
			name: "Plain string",
			resp: common.NewResultResponse(common.StringValue("hello")),
			text: "hello",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newFakeList(t, tc.resp)
			result, err := c.Call("FOO", common.NoValue())
			require.NoError(t, err)

			assert.Equal(t, tc.list, result.List())
			assert.Equal(t, tc.list != nil, result.IsList())
			text, _ := result.Text()
			assert.Equal(t, tc.text, text)
			assert.Equal(t, tc.unknown, result.IsUnknownCommand())
		})
	}
}

func TestPersistErrorResponse(t *testing.T) {
	c, _ := newFakeList(t, &common.Message{
		MsgType: common.MsgTPersistError,
		Value:   common.ListValue([]string{"a", "b"}),
		Err:     "disk full",
	})

	values, err := c.Append("b")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestErrorResponse(t *testing.T) {
	c, _ := newFakeList(t, common.NewErrorResponse("APPEND expects a string argument"))

	result, err := c.Call(common.CmdAppend, common.NoValue())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPEND expects a string argument")
	assert.Equal(t, Result{}, result)
}

func TestUnexpectedResponses(t *testing.T) {
	testCases := []struct {
		name string
		resp *common.Message
	}{
		{name: "Request as response", resp: common.NewGetRequest()},
		{name: "String where a list is expected", resp: common.NewResultResponse(common.StringValue("a"))},
		{name: "No value where a list is expected", resp: common.NewResultResponse(common.NoValue())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newFakeList(t, tc.resp)
			values, err := c.Get()
			assert.Nil(t, values)
			assert.ErrorIs(t, err, common.ErrMalformedMessage)
		})
	}
}

func TestUndecodableResponse(t *testing.T) {
	tr := &fakeTransport{resp: []byte{0xff, 0xff}}
	c, err := NewRPCList(common.ClientConfig{Endpoint: "fake"}, tr, serializer.NewJSONSerializer())
	require.NoError(t, err)

	_, err = c.Get()
	assert.ErrorIs(t, err, common.ErrMalformedMessage)
}

func TestTransportErrorIsReturned(t *testing.T) {
	tr := &fakeTransport{err: common.NewError(common.ErrKCallFailed, common.ErrConnectFailed, "no response")}
	c, err := NewRPCList(common.ClientConfig{Endpoint: "fake"}, tr, serializer.NewJSONSerializer())
	require.NoError(t, err)

	values, err := c.Append("a")
	assert.Nil(t, values)
	assert.ErrorIs(t, err, common.ErrCallFailed)
}

func TestInvalidRequestIsNotSent(t *testing.T) {
	testCases := []struct {
		name    string
		command string
		arg     common.Value
	}{
		{name: "Empty command", command: "", arg: common.NoValue()},
		{name: "Invalid value kind", command: common.CmdAppend, arg: common.Value{Kind: common.ValueKind(99)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{err: common.NewError(common.ErrKCallFailed, common.ErrConnectFailed, "no response")}
			c, err := NewRPCList(common.ClientConfig{Endpoint: "fake"}, tr, serializer.NewJSONSerializer())
			require.NoError(t, err)

			_, err = c.Call(tc.command, tc.arg)
			require.Error(t, err)
			assert.NotErrorIs(t, err, common.ErrCallFailed)
			assert.False(t, common.KindOf(err).Transient())
			assert.Empty(t, tr.requests)
		})
	}
}

func TestNewRPCListInvalidLogLevel(t *testing.T) {
	tr := &fakeTransport{}
	c, err := NewRPCList(common.ClientConfig{Endpoint: "fake", LogLevel: "loud"}, tr, serializer.NewJSONSerializer())
	assert.Error(t, err)
	assert.Nil(t, c)

	c, err = NewRPCList(common.ClientConfig{Endpoint: "fake", LogLevel: "warn"}, tr, serializer.NewJSONSerializer())
	require.NoError(t, err)
	assert.NotNil(t, c)
}
