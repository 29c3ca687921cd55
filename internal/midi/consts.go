package midi

// Channel voice status opcodes (high nibble, channel in low nibble)
const (
	NoteOff           byte = 0x80
	NoteOn            byte = 0x90
	PolyAftertouch    byte = 0xA0
	ControlChange     byte = 0xB0
	ProgramChange     byte = 0xC0
	ChannelAftertouch byte = 0xD0
	PitchBend         byte = 0xE0
)

// System common status bytes
const (
	SysExStart      byte = 0xF0
	MTCQuarterFrame byte = 0xF1
	SongPosition    byte = 0xF2
	SongSelect      byte = 0xF3
	TuneRequest     byte = 0xF6
	SysExEnd        byte = 0xF7
)

// System real-time status bytes (single byte, never alter running status)
const (
	TimingClock   byte = 0xF8
	Start         byte = 0xFA
	Continue      byte = 0xFB
	Stop          byte = 0xFC
	ActiveSensing byte = 0xFE
	SystemReset   byte = 0xFF
)

// Reports whether the byte is a status byte (high bit set)
func IsStatus(b byte) bool {
	return b&0x80 != 0
}

// Reports whether the byte is a system real-time status (0xF8-0xFF)
func IsRealTime(b byte) bool {
	return b >= TimingClock
}

// Reports whether the status byte carries a channel in its low nibble
func IsChannelStatus(b byte) bool {
	return b >= NoteOff && b < SysExStart
}

// Number of data bytes that follow the given status byte.
// Not defined for SysExStart (variable length) or the undefined
// system common statuses 0xF4/0xF5.
func DataLength(status byte) (length int, known bool) {
	if IsRealTime(status) {
		known = true
		return
	}

	switch status & 0xF0 {
	case NoteOff, NoteOn, PolyAftertouch, ControlChange, PitchBend:
		length = 2
		known = true
		return
	case ProgramChange, ChannelAftertouch:
		length = 1
		known = true
		return
	}

	switch status {
	case MTCQuarterFrame, SongSelect:
		length = 1
		known = true
	case SongPosition:
		length = 2
		known = true
	case TuneRequest:
		known = true
	}
	return
}
