// Package input turns raw terminal bytes into key and mouse events.
package input

import (
	"bufio"
)

// Key identifies what an Event carries.
type Key int

const (
	KeyRune      Key = iota // Printable ASCII byte in Event.Rune
	KeyEnter                // Enter / Return
	KeySpace                // Space bar
	KeyEscape               // A lone ESC
	KeyBackspace            // Backspace or DEL
	KeyInterrupt            // Ctrl-C, delivered as a byte in raw mode
	KeyMouse                // Mouse button press, see Button, Col and Row
)

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is one key press or mouse button press.
type Event struct {
	Key    Key
	Rune   byte
	Button Button
	Col    int // 1-based terminal column of a mouse press
	Row    int // 1-based terminal row of a mouse press
}

// Input is everything that arrived since the previous ReadInput call.
type Input struct {
	Events  []Event // In arrival order
	Pressed []byte  // Raw bytes consumed this frame
	Closed  bool    // The underlying reader has ended
}

// Stream delivers input bytes via a channel and keeps partial escape
// sequences between frames.
type Stream struct {
	ch      chan byte
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking and
// parses them into events.
//
// A trailing ESC is held back for one frame since it may start an escape
// sequence whose remaining bytes have not arrived yet. If nothing follows by
// the next call it is reported as KeyEscape.
func ReadInput(s *Stream) Input {
	var fresh []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			fresh = append(fresh, b)
		default:
			break drain
		}
	}

	buf := append(s.pending, fresh...)
	flush := len(fresh) == 0 || s.closed
	events, rest := Parse(buf, flush)
	s.pending = append([]byte(nil), rest...)

	return Input{
		Events:  events,
		Pressed: fresh,
		Closed:  s.closed,
	}
}

// Parse decodes buf into events. An incomplete escape sequence at the end
// of buf is returned in rest unless flush is set, in which case its ESC is
// reported as KeyEscape and the remaining bytes are parsed as plain keys.
func Parse(buf []byte, flush bool) (events []Event, rest []byte) {
	for i := 0; i < len(buf); {
		if buf[i] != '\x1b' {
			events = appendByte(events, buf[i])
			i++
			continue
		}

		ev, hasEvent, n, complete := parseEscape(buf[i:])
		switch {
		case !complete && !flush:
			return events, buf[i:]
		case complete && n > 0:
			if hasEvent {
				events = append(events, ev)
			}
			i += n
		default:
			events = append(events, Event{Key: KeyEscape})
			i++
		}
	}
	return events, nil
}

// appendByte maps a single byte to a key event. Unmapped control bytes are
// dropped.
func appendByte(events []Event, b byte) []Event {
	switch {
	case b == '\r' || b == '\n':
		return append(events, Event{Key: KeyEnter})
	case b == ' ':
		return append(events, Event{Key: KeySpace})
	case b == '\b' || b == 0x7f:
		return append(events, Event{Key: KeyBackspace})
	case b == 0x03:
		return append(events, Event{Key: KeyInterrupt})
	case b > ' ' && b < 0x7f:
		return append(events, Event{Key: KeyRune, Rune: b})
	}
	return events
}

// parseEscape decodes the escape sequence at the start of b, which begins
// with ESC. n is the number of bytes consumed; n == 0 with complete set means
// b starts with a lone ESC. Sequences other than mouse presses are consumed
// without an event.
func parseEscape(b []byte) (ev Event, hasEvent bool, n int, complete bool) {
	if len(b) < 2 {
		return Event{}, false, 0, false
	}
	switch b[1] {
	case 'O': // SS3: ESC O <final>
		if len(b) < 3 {
			return Event{}, false, 0, false
		}
		return Event{}, false, 3, true
	case '[':
	default:
		return Event{}, false, 0, true
	}

	if len(b) < 3 {
		return Event{}, false, 0, false
	}
	if b[2] == '<' {
		return parseSGRMouse(b)
	}

	// Other CSI: parameters then a final byte in 0x40..0x7e.
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return Event{}, false, i + 1, true
		}
	}
	return Event{}, false, 0, false
}

// parseSGRMouse decodes ESC [ < button ; col ; row (M|m).
// Only presses of the three main buttons produce events; releases, motion
// and wheel reports are consumed silently.
func parseSGRMouse(b []byte) (ev Event, hasEvent bool, n int, complete bool) {
	var params [3]int
	field := 0
	for i := 3; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			params[field] = params[field]*10 + int(c-'0')
		case c == ';':
			field++
			if field >= len(params) {
				return Event{}, false, i + 1, true
			}
		case c == 'M' || c == 'm':
			if c == 'm' || field != 2 {
				return Event{}, false, i + 1, true
			}
			cb := params[0]
			if cb&(32|64) != 0 || cb&3 == 3 {
				return Event{}, false, i + 1, true
			}
			ev = Event{
				Key:    KeyMouse,
				Button: Button(cb & 3),
				Col:    params[1],
				Row:    params[2],
			}
			return ev, true, i + 1, true
		default:
			// Malformed; drop what was read.
			return Event{}, false, i + 1, true
		}
	}
	return Event{}, false, 0, false
}
