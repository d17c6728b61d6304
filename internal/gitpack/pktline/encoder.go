package pktline

import (
	"fmt"
	"io"
)

const (
	sidebandPack     = 1
	sidebandProgress = 2

	// sidebandChunk is the largest payload carried in one SidebandData
	// sub-frame: together with the 1-byte sideband channel marker it fills
	// at most MaxDataLen, so the whole frame stays within the 65520 cap.
	sidebandChunk = MaxDataLen - 1
)

// Encoder writes framed pkt-line output to an underlying io.Writer. It
// holds no buffering of its own beyond what each Write call needs.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for pkt-line framed writes.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) writeFrame(payload []byte) error {
	length := asciiHex16(len(payload) + lenSize)
	if _, err := e.w.Write(length[:]); err != nil {
		return err
	}
	_, err := e.w.Write(payload)
	return err
}

// Data writes a single Data(b) frame.
func (e *Encoder) Data(b []byte) error {
	return e.writeFrame(b)
}

// Dataf writes a single Data frame built from a format string.
func (e *Encoder) Dataf(format string, args ...any) error {
	return e.Data([]byte(fmt.Sprintf(format, args...)))
}

// SidebandMsg writes a progress/diagnostic line on sideband channel 2.
func (e *Encoder) SidebandMsg(msg []byte) error {
	payload := make([]byte, 0, len(msg)+1)
	payload = append(payload, sidebandProgress)
	payload = append(payload, msg...)
	return e.writeFrame(payload)
}

// SidebandData writes an arbitrarily large byte slice on sideband channel
// 1 (pack data), splitting it into as many sub-frames as required to
// respect MaxDataLen.
func (e *Encoder) SidebandData(data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > sidebandChunk {
			n = sidebandChunk
		}
		chunk := data[:n]
		data = data[n:]

		payload := make([]byte, 0, n+1)
		payload = append(payload, sidebandPack)
		payload = append(payload, chunk...)
		if err := e.writeFrame(payload); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the 0000 control token.
func (e *Encoder) Flush() error {
	_, err := e.w.Write([]byte("0000"))
	return err
}

// Delimiter writes the 0001 control token.
func (e *Encoder) Delimiter() error {
	_, err := e.w.Write([]byte("0001"))
	return err
}

// ResponseEnd writes the 0002 control token.
func (e *Encoder) ResponseEnd() error {
	_, err := e.w.Write([]byte("0002"))
	return err
}
