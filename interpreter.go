package readterm

import (
	"strconv"
	"strings"
)

// Primitive is one low-level terminal effect decoded from the raw byte
// stream. Drivers translate the primitives they care about into Events
// and drop the rest.
type Primitive interface {
	primitive()
}

// CharPrimitive is a character placed at a viewport-relative position
// with the attributes in effect when it was decoded.
type CharPrimitive struct {
	X, Y          int
	Character     rune
	Bold          bool
	Italic        bool
	Underlined    bool
	Strikethrough bool
	Color         Color
}

// ScreenBufferPrimitive reports that the screen buffer was reinitialized.
// Clear is set when the cells were blanked (full erase), and unset for
// partial erases.
type ScreenBufferPrimitive struct {
	Clear bool
}

// MoveCursorPrimitive reports an explicit cursor move. It has no Event
// counterpart; subsequent CharPrimitives already carry absolute
// positions.
type MoveCursorPrimitive struct {
	X, Y int
}

// BellPrimitive reports the BEL control character.
type BellPrimitive struct{}

// TitlePrimitive reports an OSC window-title change.
type TitlePrimitive struct {
	Title string
}

func (CharPrimitive) primitive()         {}
func (ScreenBufferPrimitive) primitive() {}
func (MoveCursorPrimitive) primitive()   {}
func (BellPrimitive) primitive()         {}
func (TitlePrimitive) primitive()        {}

// interpreterState identifies the decoder state.
type interpreterState int

const (
	stateGround    interpreterState = iota
	stateEscape                     // After ESC
	stateCSI                        // After ESC [
	stateCSIParam                   // Reading CSI parameters
	stateOSC                        // After ESC ]
	stateOSCString                  // Reading OSC string
	stateCharset                    // After ESC ( or ESC )
)

// tabStop is the interpreter's fixed tab stop interval. Tab rendering
// width inside the scroll buffer is configured separately.
const tabStop = 8

// Interpreter consumes the raw byte stream a shell session produces and
// emits low-level primitives. It is sized to the viewport geometry and
// tracks the cursor position and SGR attributes needed to stamp each
// decoded character with absolute coordinates.
//
// The interpreter must be reconstructed (or Reset) when the viewport
// geometry changes. A reset in the middle of a partially received escape
// sequence discards that sequence; this is an accepted limitation.
type Interpreter struct {
	cols  int
	rows  int
	state interpreterState

	// CSI sequence accumulator
	csiParams     []int
	csiPrivate    byte
	csiBuf        strings.Builder
	csiParamsDone bool

	// OSC accumulator
	oscBuf strings.Builder

	// UTF-8 multi-byte handling
	utf8Buf  []byte
	utf8Need int

	// Screen state
	x, y          int
	savedX        int
	savedY        int
	bold          bool
	italic        bool
	underlined    bool
	strikethrough bool
	color         Color
}

// NewInterpreter creates an interpreter for the given viewport geometry.
func NewInterpreter(cols, rows int) *Interpreter {
	return &Interpreter{
		cols:      cols,
		rows:      rows,
		state:     stateGround,
		csiParams: make([]int, 0, 16),
		color:     White,
	}
}

// Reset returns the interpreter to its initial state, keeping the
// viewport geometry. Any partially decoded escape sequence is dropped.
func (in *Interpreter) Reset() {
	*in = *NewInterpreter(in.cols, in.rows)
}

// Feed consumes raw bytes incrementally, invoking emit once per decoded
// primitive. Incomplete escape sequences and UTF-8 runes are carried
// over to the next call.
func (in *Interpreter) Feed(data []byte, emit func(Primitive)) {
	for _, b := range data {
		in.processByte(b, emit)
	}
}

func (in *Interpreter) processByte(b byte, emit func(Primitive)) {
	// Handle UTF-8 continuation bytes
	if in.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			in.utf8Buf = append(in.utf8Buf, b)
			in.utf8Need--
			if in.utf8Need == 0 {
				r := decodeUTF8(in.utf8Buf)
				if in.state == stateGround {
					in.putChar(r, emit)
				}
				in.utf8Buf = in.utf8Buf[:0]
			}
			return
		}
		// Invalid UTF-8, reset
		in.utf8Buf = in.utf8Buf[:0]
		in.utf8Need = 0
	}

	// Check for UTF-8 start bytes in ground state
	if in.state == stateGround {
		if b&0xE0 == 0xC0 {
			in.utf8Buf = append(in.utf8Buf[:0], b)
			in.utf8Need = 1
			return
		} else if b&0xF0 == 0xE0 {
			in.utf8Buf = append(in.utf8Buf[:0], b)
			in.utf8Need = 2
			return
		} else if b&0xF8 == 0xF0 {
			in.utf8Buf = append(in.utf8Buf[:0], b)
			in.utf8Need = 3
			return
		}
	}

	switch in.state {
	case stateGround:
		in.handleGround(b, emit)
	case stateEscape:
		in.handleEscape(b, emit)
	case stateCSI, stateCSIParam:
		in.handleCSI(b, emit)
	case stateOSC:
		in.handleOSC(b, emit)
	case stateOSCString:
		in.handleOSCString(b, emit)
	case stateCharset:
		// Consume one character and return to ground
		in.state = stateGround
	}
}

func decodeUTF8(buf []byte) rune {
	switch len(buf) {
	case 2:
		return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
	case 3:
		return rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case 4:
		return rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	default:
		return 0xFFFD
	}
}

func (in *Interpreter) handleGround(b byte, emit func(Primitive)) {
	switch b {
	case 0x00: // NUL - ignore
	case 0x07: // BEL
		emit(BellPrimitive{})
	case 0x08: // BS - backspace
		if in.x > 0 {
			in.x--
		}
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
	case 0x09: // HT - horizontal tab
		in.x = (in.x/tabStop + 1) * tabStop
		if in.x >= in.cols {
			in.x = in.cols - 1
		}
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
	case 0x0A, 0x0B, 0x0C: // LF (VT, FF treated the same)
		in.lineFeed()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
	case 0x0D: // CR - carriage return
		in.x = 0
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
	case 0x1B: // ESC
		in.state = stateEscape
	default:
		if b >= 0x20 && b < 0x7F {
			// Printable ASCII
			in.putChar(rune(b), emit)
		}
	}
}

func (in *Interpreter) handleEscape(b byte, emit func(Primitive)) {
	switch b {
	case '[': // CSI - Control Sequence Introducer
		in.state = stateCSI
		in.csiParams = in.csiParams[:0]
		in.csiPrivate = 0
		in.csiBuf.Reset()
		in.csiParamsDone = false
	case ']': // OSC - Operating System Command
		in.state = stateOSC
		in.oscBuf.Reset()
	case '(', ')': // Character set designation
		in.state = stateCharset
	case '7': // DECSC - Save Cursor
		in.savedX, in.savedY = in.x, in.y
		in.state = stateGround
	case '8': // DECRC - Restore Cursor
		in.x, in.y = in.savedX, in.savedY
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
		in.state = stateGround
	case 'c': // RIS - Reset to Initial State
		in.resetAttributes()
		in.x, in.y = 0, 0
		emit(ScreenBufferPrimitive{Clear: true})
		in.state = stateGround
	case 'D': // IND - Index
		in.lineFeed()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
		in.state = stateGround
	case 'E': // NEL - Next Line
		in.x = 0
		in.lineFeed()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
		in.state = stateGround
	case 'M': // RI - Reverse Index
		if in.y > 0 {
			in.y--
		}
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})
		in.state = stateGround
	default:
		// Unknown escape sequence, return to ground state
		in.state = stateGround
	}
}

func (in *Interpreter) handleCSI(b byte, emit func(Primitive)) {
	if in.state == stateCSI {
		// First byte after ESC [
		if b == '?' || b == '>' || b == '!' || b == '<' {
			in.csiPrivate = b
			in.state = stateCSIParam
			return
		}
		in.state = stateCSIParam
	}

	// Collect parameter bytes
	if b >= '0' && b <= '9' {
		in.csiBuf.WriteByte(b)
		return
	}

	if b == ';' {
		in.parseCSIParam()
		in.csiBuf.Reset()
		return
	}

	if b == ':' {
		// Sub-parameter separator (used in some SGR sequences)
		in.csiBuf.WriteByte(b)
		return
	}

	// Intermediate bytes (0x20-0x2F): sequences like DECSCUSR carry an
	// intermediate before the final byte; none of them produce a
	// primitive we model, so only the final byte matters here. The
	// parameters are finalized once, whichever byte arrives first.
	if b >= 0x20 && b <= 0x2F {
		if !in.csiParamsDone {
			in.parseCSIParam()
			in.csiParamsDone = true
		}
		return
	}

	// Final byte - execute the sequence
	if !in.csiParamsDone {
		in.parseCSIParam()
	}
	in.executeCSI(b, emit)
	in.state = stateGround
}

func (in *Interpreter) parseCSIParam() {
	s := in.csiBuf.String()
	if s == "" {
		in.csiParams = append(in.csiParams, 0) // Default value
		return
	}
	// Only the base value before any colon-separated subparameter is
	// kept; extended SGR colors use the subparams via the raw string.
	base := s
	if colonIdx := strings.IndexByte(s, ':'); colonIdx >= 0 {
		base = s[:colonIdx]
	}
	n, _ := strconv.Atoi(base)
	in.csiParams = append(in.csiParams, n)
}

func (in *Interpreter) getParam(idx, defaultVal int) int {
	if idx < len(in.csiParams) && in.csiParams[idx] > 0 {
		return in.csiParams[idx]
	}
	return defaultVal
}

func (in *Interpreter) executeCSI(finalByte byte, emit func(Primitive)) {
	switch finalByte {
	case 'A': // CUU - Cursor Up
		in.y -= in.getParam(0, 1)
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'B': // CUD - Cursor Down
		in.y += in.getParam(0, 1)
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'C': // CUF - Cursor Forward
		in.x += in.getParam(0, 1)
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'D': // CUB - Cursor Backward
		in.x -= in.getParam(0, 1)
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'E': // CNL - Cursor Next Line
		in.y += in.getParam(0, 1)
		in.x = 0
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'F': // CPL - Cursor Previous Line
		in.y -= in.getParam(0, 1)
		in.x = 0
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'G': // CHA - Cursor Horizontal Absolute
		in.x = in.getParam(0, 1) - 1 // 1-indexed to 0-indexed
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'H', 'f': // CUP/HVP - Cursor Position
		in.y = in.getParam(0, 1) - 1
		in.x = in.getParam(1, 1) - 1
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'd': // VPA - Vertical Position Absolute
		in.y = in.getParam(0, 1) - 1
		in.clampCursor()
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'J': // ED - Erase in Display
		switch in.getParam(0, 0) {
		case 0, 1:
			// Partial erase: the screen buffer changed, but the cells
			// were not all blanked.
			emit(ScreenBufferPrimitive{Clear: false})
		case 2, 3:
			in.x, in.y = 0, 0
			emit(ScreenBufferPrimitive{Clear: true})
		}

	case 'K': // EL - Erase in Line: no primitive modeled

	case 'm': // SGR - Select Graphic Rendition
		in.executeSGR()

	case 's': // SCP - Save Cursor Position
		in.savedX, in.savedY = in.x, in.y

	case 'u': // RCP - Restore Cursor Position
		in.x, in.y = in.savedX, in.savedY
		emit(MoveCursorPrimitive{X: in.x, Y: in.y})

	case 'h', 'l': // SM/RM - private mode toggles: ignored
	case 'n': // DSR - Device Status Report: would need a response, ignore
	case 'r': // DECSTBM - scroll regions are out of scope
	case 'c': // DA - Device Attributes: would need a response, ignore
	}
}

func (in *Interpreter) executeSGR() {
	if len(in.csiParams) == 0 {
		in.resetAttributes()
		return
	}

	i := 0
	for i < len(in.csiParams) {
		param := in.csiParams[i]
		switch param {
		case 0: // Reset
			in.resetAttributes()
		case 1: // Bold
			in.bold = true
		case 2: // Dim (treat as not bold)
			in.bold = false
		case 3: // Italic
			in.italic = true
		case 4: // Underline
			in.underlined = true
		case 7: // Reverse video: not modeled
		case 9: // Strikethrough
			in.strikethrough = true
		case 21: // Double underline: not modeled
		case 22: // Normal intensity
			in.bold = false
		case 23: // Italic off
			in.italic = false
		case 24: // Underline off
			in.underlined = false
		case 29: // Strikethrough off
			in.strikethrough = false

		// Foreground colors (30-37)
		case 30, 31, 32, 33, 34, 35, 36, 37:
			in.color = ANSIColors[param-30]

		// Bright foreground colors (90-97)
		case 90, 91, 92, 93, 94, 95, 96, 97:
			in.color = ANSIColors[param-90+8]

		case 38: // Extended foreground color
			if i+2 < len(in.csiParams) && in.csiParams[i+1] == 5 {
				// 38;5;N
				in.color = Color256(in.csiParams[i+2])
				i += 2
			} else if i+4 < len(in.csiParams) && in.csiParams[i+1] == 2 {
				// 38;2;R;G;B
				in.color = FromRGB8(
					uint8(in.csiParams[i+2]),
					uint8(in.csiParams[i+3]),
					uint8(in.csiParams[i+4]),
				)
				i += 4
			}

		case 39: // Default foreground
			in.color = White

		case 48: // Extended background color: skip its arguments
			if i+2 < len(in.csiParams) && in.csiParams[i+1] == 5 {
				i += 2
			} else if i+4 < len(in.csiParams) && in.csiParams[i+1] == 2 {
				i += 4
			}

		// Background colors are not part of the event model.
		case 40, 41, 42, 43, 44, 45, 46, 47, 49:
		case 100, 101, 102, 103, 104, 105, 106, 107:
		}
		i++
	}
}

func (in *Interpreter) handleOSC(b byte, emit func(Primitive)) {
	// The command number before the first ';' selects the OSC command;
	// everything after it is the string payload.
	if b == ';' {
		in.oscBuf.WriteByte(b)
		in.state = stateOSCString
		return
	}
	if b >= '0' && b <= '9' {
		in.oscBuf.WriteByte(b)
		return
	}
	// Malformed OSC, drop back to ground
	in.state = stateGround
}

func (in *Interpreter) handleOSCString(b byte, emit func(Primitive)) {
	switch b {
	case 0x07: // BEL terminates the OSC string
		in.finishOSC(emit)
	case 0x1B: // ESC \ (ST) also terminates; the '\' is consumed next
		in.finishOSC(emit)
		in.state = stateCharset
	default:
		in.oscBuf.WriteByte(b)
	}
}

func (in *Interpreter) finishOSC(emit func(Primitive)) {
	payload := in.oscBuf.String()
	if idx := strings.IndexByte(payload, ';'); idx >= 0 {
		cmd, _ := strconv.Atoi(payload[:idx])
		if cmd == 0 || cmd == 2 {
			emit(TitlePrimitive{Title: payload[idx+1:]})
		}
	}
	in.oscBuf.Reset()
	in.state = stateGround
}

func (in *Interpreter) putChar(r rune, emit func(Primitive)) {
	if in.x >= in.cols {
		in.x = 0
		in.lineFeed()
	}
	emit(CharPrimitive{
		X:             in.x,
		Y:             in.y,
		Character:     r,
		Bold:          in.bold,
		Italic:        in.italic,
		Underlined:    in.underlined,
		Strikethrough: in.strikethrough,
		Color:         in.color,
	})
	in.x++
}

// lineFeed moves the cursor down one row, clamping at the bottom of the
// viewport. Scrollback growth is the scroll buffer's concern, not the
// interpreter's.
func (in *Interpreter) lineFeed() {
	if in.y < in.rows-1 {
		in.y++
	}
}

func (in *Interpreter) clampCursor() {
	if in.x < 0 {
		in.x = 0
	}
	if in.x >= in.cols {
		in.x = in.cols - 1
	}
	if in.y < 0 {
		in.y = 0
	}
	if in.y >= in.rows {
		in.y = in.rows - 1
	}
}

func (in *Interpreter) resetAttributes() {
	in.bold = false
	in.italic = false
	in.underlined = false
	in.strikethrough = false
	in.color = White
}
