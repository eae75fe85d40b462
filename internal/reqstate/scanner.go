// Package reqstate implements the byte-level finite-state scanner that
// detects the end of an HTTP request (request-line plus headers) within an
// accumulating read buffer, without ever blocking or looping past the bytes
// currently available (spec §4.2, §8 P3).
package reqstate

// State names the scanner's position within the request-line/header grammar.
// Values mirror thttpd's CHST_* states (libhttpd.c) one for one.
type State int

const (
	StateFirstWord State = iota
	StateFirstWS
	StateSecondWord
	StateSecondWS
	StateThirdWord
	StateThirdWS
	StateLine
	StateLF
	StateCR
	StateCRLF
	StateCRLFCR
	StateBogus
)

// Result is the outcome of scanning the bytes available so far.
type Result int

const (
	NeedMore Result = iota
	Complete
	Bad
)

// Scan consumes buf[start:end] one byte at a time starting from state,
// returning the updated state and the scan outcome. It never inspects bytes
// outside [start, end) and always terminates after exactly end-start steps
// (or earlier, once a terminal verdict is reached), satisfying P3.
func Scan(buf []byte, start, end int, state State) (State, int, Result) {
	i := start
	for ; i < end; i++ {
		c := buf[i]
		switch state {
		case StateFirstWord:
			switch c {
			case ' ', '\t':
				state = StateFirstWS
			case '\n', '\r':
				return StateBogus, i + 1, Bad
			}

		case StateFirstWS:
			switch c {
			case ' ', '\t':
				// stay
			case '\n', '\r':
				return StateBogus, i + 1, Bad
			default:
				state = StateSecondWord
			}

		case StateSecondWord:
			switch c {
			case ' ', '\t':
				state = StateSecondWS
			case '\n', '\r':
				// Only two words on the request line: HTTP/0.9.
				return state, i + 1, Complete
			}

		case StateSecondWS:
			switch c {
			case ' ', '\t':
				// stay
			case '\n', '\r':
				return StateBogus, i + 1, Bad
			default:
				state = StateThirdWord
			}

		case StateThirdWord:
			switch c {
			case ' ', '\t':
				state = StateThirdWS
			case '\n':
				state = StateLF
			case '\r':
				state = StateCR
			}

		case StateThirdWS:
			switch c {
			case ' ', '\t':
				// stay
			case '\n':
				state = StateLF
			case '\r':
				state = StateCR
			default:
				return StateBogus, i + 1, Bad
			}

		case StateLine:
			switch c {
			case '\n':
				state = StateLF
			case '\r':
				state = StateCR
			}

		case StateLF:
			switch c {
			case '\n':
				return state, i + 1, Complete
			case '\r':
				state = StateCR
			default:
				state = StateLine
			}

		case StateCR:
			switch c {
			case '\n':
				state = StateCRLF
			case '\r':
				return state, i + 1, Complete
			default:
				state = StateLine
			}

		case StateCRLF:
			switch c {
			case '\n':
				return state, i + 1, Complete
			case '\r':
				state = StateCRLFCR
			default:
				state = StateLine
			}

		case StateCRLFCR:
			switch c {
			case '\n', '\r':
				return state, i + 1, Complete
			default:
				state = StateLine
			}

		case StateBogus:
			return state, i + 1, Bad
		}
	}
	return state, i, NeedMore
}
