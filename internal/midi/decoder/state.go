package decoder

import "time"

// Per-source decode state. Persists across Decode calls because MIDI
// permits omission of a repeated status byte (running status) and a raw
// buffer boundary may fall inside a message.
// Not safe for concurrent use, the owner serializes access per source.
type State struct {
	lastStatus byte // running status, 0 when none is active
	curStatus  byte // status of the message being assembled, 0 when idle
	needed     int  // data bytes the current message requires
	count      int  // data bytes collected so far
	data       [2]byte

	inSysEx bool
	sysex   []byte

	epoch time.Time // base for monotonic message timestamps
}

// Fresh decode state with no running status
func NewState() (state *State) {
	state = &State{
		epoch: time.Now(),
	}
	return
}

// Monotonic nanoseconds since the state was created
func (state *State) now() (timestamp int64) {
	timestamp = time.Since(state.epoch).Nanoseconds()
	return
}
