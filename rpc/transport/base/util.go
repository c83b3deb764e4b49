package base

import (
	"encoding/binary"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/pkg/errors"
	"io"
	"math"
	"net"
)

// frameHeaderSize is the size of the length prefix of every frame
const frameHeaderSize = 4

// writeFrame writes a frame to the connection with the format:
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func writeFrame(conn net.Conn, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return errors.Errorf("payload of %d bytes does not fit into a frame", len(data))
	}

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header}
	if len(data) > 0 {
		b = append(b, data)
	}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads exactly one frame from the connection.
//
// A connection closed before the first header byte returns io.EOF. A frame that
// ends early or announces more than maxSize bytes is a malformed message.
// Any other I/O error (e.g. a deadline) is returned unchanged.
func readFrame(conn net.Conn, maxSize uint32) ([]byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, common.NewError(common.ErrKMalformedMessage, err, "truncated frame header")
		}
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header)
	if maxSize > 0 && contentLength > maxSize {
		return nil, common.NewError(common.ErrKMalformedMessage, nil,
			"frame of %d bytes exceeds limit of %d bytes", contentLength, maxSize)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	data := make([]byte, contentLength)
	if _, err := io.ReadFull(conn, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, common.NewError(common.ErrKMalformedMessage, err,
				"truncated frame payload (expected %d bytes)", contentLength)
		}
		return nil, err
	}

	return data, nil
}
