package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadBufferSize bounds a single read of the text format
const ReadBufferSize = 1024

var ErrUnknownCodec = errors.New("unknown codec")

// Codec turns messages into frames and back
type Codec interface {
	Name() string
	EncodeOutbound(msg OutboundMessage) ([]byte, error)
	DecodeOutbound(frame []byte) ([]OutboundMessage, error)
	EncodeInbound(msg InboundMessage) ([]byte, error)
	DecodeInbound(frame []byte) (InboundMessage, error)
	// ReadFrame reads the next frame from a stream
	ReadFrame(r *bufio.Reader) ([]byte, error)
}

// NewCodec returns the codec registered under name
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", TextCodecName:
		return TextCodec{}, nil
	case JSONCodecName:
		return JSONCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

const (
	TextCodecName = "text"
	JSONCodecName = "json"
)

// TextCodec is the human readable line format with inline markers.
// A frame is whatever a single read returns, so messages written
// back to back may arrive coalesced or split.
type TextCodec struct{}

func (TextCodec) Name() string {
	return TextCodecName
}

func (TextCodec) EncodeOutbound(msg OutboundMessage) ([]byte, error) {
	return []byte(FormatText(msg) + "\n"), nil
}

func (TextCodec) DecodeOutbound(frame []byte) ([]OutboundMessage, error) {
	return ParseText(string(frame)), nil
}

func (TextCodec) EncodeInbound(msg InboundMessage) ([]byte, error) {
	return []byte(msg.Text + "\n"), nil
}

func (TextCodec) DecodeInbound(frame []byte) (InboundMessage, error) {
	return InboundMessage{Command: Answer, Text: strings.TrimSpace(string(frame))}, nil
}

func (TextCodec) ReadFrame(r *bufio.Reader) ([]byte, error) {
	buf := make([]byte, ReadBufferSize)
	n, err := r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, err
}

// JSONCodec writes one JSON document per line
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return JSONCodecName
}

func (JSONCodec) EncodeOutbound(msg OutboundMessage) ([]byte, error) {
	return encodeLine(msg)
}

func (JSONCodec) DecodeOutbound(frame []byte) ([]OutboundMessage, error) {
	msgs := []OutboundMessage{}

	for _, line := range bytes.Split(frame, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var msg OutboundMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("decoding message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func (JSONCodec) EncodeInbound(msg InboundMessage) ([]byte, error) {
	return encodeLine(msg)
}

func (JSONCodec) DecodeInbound(frame []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(bytes.TrimSpace(frame), &msg); err != nil {
		return InboundMessage{}, fmt.Errorf("decoding answer: %w", err)
	}
	msg.Text = strings.TrimSpace(msg.Text)

	return msg, nil
}

func (JSONCodec) ReadFrame(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err == nil {
		return line, nil
	}

	// a final line without a newline still counts
	if errors.Is(err, io.EOF) && len(bytes.TrimSpace(line)) > 0 {
		return line, nil
	}
	return nil, err
}

func encodeLine(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
