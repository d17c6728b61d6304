package pktline

// Decoder turns a growing byte buffer into a sequence of Frames. Bytes are
// fed in with Feed (e.g. as they arrive off an SSH channel); Next is called
// in a loop until it reports that more data is needed.
type Decoder struct {
	buf []byte
}

// Feed appends newly-read bytes to the decoder's pending buffer.
func (d *Decoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next attempts to decode one Frame off the front of the pending buffer.
// It returns ok=false (with a nil error) when the buffer doesn't yet hold
// a complete frame; the caller should Feed more bytes and retry. A non-nil
// error is always an *ErrProtocolViolation and the connection must be
// closed — the decoder does not attempt to resynchronize.
func (d *Decoder) Next() (frame Frame, ok bool, err error) {
	if len(d.buf) < lenSize {
		return Frame{}, false, nil
	}

	var lenBytes [lenSize]byte
	copy(lenBytes[:], d.buf[:lenSize])
	length, err := hexDecode(lenBytes)
	if err != nil {
		return Frame{}, false, err
	}

	switch length {
	case 0:
		d.buf = d.buf[lenSize:]
		return Frame{Kind: KindFlush}, true, nil
	case 1:
		d.buf = d.buf[lenSize:]
		return Frame{Kind: KindDelimiter}, true, nil
	case 2:
		d.buf = d.buf[lenSize:]
		return Frame{Kind: KindResponseEnd}, true, nil
	}

	if length < lenSize || length > maxFrameLen {
		return Frame{}, false, &ErrProtocolViolation{Reason: "pkt-line length out of range"}
	}

	if len(d.buf) < length {
		// Not enough bytes buffered yet; wait for more without consuming
		// anything, per the spec's "reserve additional capacity" rule.
		return Frame{}, false, nil
	}

	payload := make([]byte, length-lenSize)
	copy(payload, d.buf[lenSize:length])
	d.buf = d.buf[length:]

	if n := len(payload); n > 0 && payload[n-1] == '\n' {
		payload = payload[:n-1]
	}

	return Frame{Kind: KindData, Data: payload}, true, nil
}

// Command is a group of Data frames terminated by a Flush: the first line
// is the command itself, subsequent lines are its metadata arguments.
type Command struct {
	Name     string
	Metadata []string
}

// HasMetadata reports whether any metadata line equals want exactly.
func (c Command) HasMetadata(want string) bool {
	for _, m := range c.Metadata {
		if m == want {
			return true
		}
	}
	return false
}

// CommandReader groups decoded frames into Commands the way the protocol
// v2 command loop expects: read frames until a Flush closes the group.
type CommandReader struct {
	dec Decoder

	// cmd and sawAny hold the group read so far, so frames of a group
	// that arrive across several Feed calls are kept until its Flush.
	cmd    Command
	sawAny bool
}

// Feed appends bytes to the underlying Decoder.
func (r *CommandReader) Feed(b []byte) {
	r.dec.Feed(b)
}

// ReadResult is what came out of draining one command group.
type ReadResult struct {
	// Command is the parsed command, valid when Flush is true and
	// Empty is false.
	Command Command
	// Flush reports whether a Flush frame closed the group.
	Flush bool
	// Empty reports a Flush with no preceding Data frame at all: a
	// clean client disconnect per §4.E.
	Empty bool
}

// Next drains frames until a Flush is seen or the buffer runs dry. ok is
// false when more bytes are needed before a full group is available.
func (r *CommandReader) Next() (res ReadResult, ok bool, err error) {
	for {
		frame, frameOK, ferr := r.dec.Next()
		if ferr != nil {
			return ReadResult{}, false, ferr
		}
		if !frameOK {
			return ReadResult{}, false, nil
		}
		switch frame.Kind {
		case KindFlush:
			out := ReadResult{Command: r.cmd, Flush: true, Empty: !r.sawAny}
			r.cmd, r.sawAny = Command{}, false
			return out, true, nil
		case KindDelimiter, KindResponseEnd:
			// these never occur in client->server command groups we
			// support; ignore rather than fault, matching the rule
			// that unknown protocol chatter must not kill the session.
			continue
		case KindData:
			r.sawAny = true
			if r.cmd.Name == "" {
				r.cmd.Name = string(frame.Data)
			} else {
				r.cmd.Metadata = append(r.cmd.Metadata, string(frame.Data))
			}
		}
	}
}
