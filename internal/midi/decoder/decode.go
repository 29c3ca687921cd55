// Incremental MIDI byte stream decoder with per-source running status
package decoder

import (
	"fmt"
	"midistream/internal/midi"
)

// A recoverable decode anomaly. The offending bytes are discarded and the
// decoder resynchronizes on the next status byte, the stream is never
// aborted.
type Diagnostic struct {
	Offset int  // index into the raw buffer of the offending byte
	Byte   byte // the byte that triggered the diagnostic
	Reason string
}

func (diag Diagnostic) String() (text string) {
	text = fmt.Sprintf("malformed byte 0x%02X at offset %d: %s", diag.Byte, diag.Offset, diag.Reason)
	return
}

// Decodes the raw buffer into complete MIDI messages for one source.
// A trailing partial message is buffered in the state and completed by the
// next call, no call boundary is assumed to align with a message boundary.
func (state *State) Decode(sourceID int, raw []byte) (msgs []midi.Message, diags []Diagnostic) {
	index := 0
	for index < len(raw) {
		currentByte := raw[index]

		// Real-time statuses are single byte, may appear anywhere (even
		// inside a system exclusive), and never disturb running status.
		if midi.IsRealTime(currentByte) {
			msgs = append(msgs, state.emit(sourceID, currentByte, nil))
			index++
			continue
		}

		if state.inSysEx {
			if currentByte == midi.SysExEnd {
				payload := append([]byte(nil), state.sysex...)
				msgs = append(msgs, state.emit(sourceID, midi.SysExStart, payload))
				state.inSysEx = false
				state.sysex = nil
				index++
				continue
			}
			if !midi.IsStatus(currentByte) {
				state.sysex = append(state.sysex, currentByte)
				index++
				continue
			}

			// A non-real-time status before the terminator aborts the
			// exclusive. Reprocess the same byte as a fresh status.
			diags = append(diags, Diagnostic{Offset: index, Byte: currentByte, Reason: "unterminated system exclusive"})
			state.inSysEx = false
			state.sysex = nil
			continue
		}

		if midi.IsStatus(currentByte) {
			diags = state.consumeStatus(sourceID, currentByte, index, &msgs, diags)
			index++
			continue
		}

		diags = state.consumeData(sourceID, currentByte, index, &msgs, diags)
		index++
	}
	return
}

// Discards a partially assembled trailing message at end of stream.
// Running status survives, only the incomplete message is dropped.
func (state *State) Flush() (diags []Diagnostic) {
	if state.curStatus != 0 {
		diags = append(diags, Diagnostic{Byte: state.curStatus, Reason: "truncated message at end of stream"})
		state.curStatus = 0
		state.count = 0
		state.needed = 0
	}
	if state.inSysEx {
		diags = append(diags, Diagnostic{Byte: midi.SysExStart, Reason: "unterminated system exclusive at end of stream"})
		state.inSysEx = false
		state.sysex = nil
	}
	return
}

// Handles a non-real-time status byte
func (state *State) consumeStatus(sourceID int, statusByte byte, index int, msgs *[]midi.Message, diags []Diagnostic) (outDiags []Diagnostic) {
	outDiags = diags

	// A new status while a message is mid-assembly means the previous
	// message was truncated. Discard it and continue with the new status.
	if state.curStatus != 0 {
		outDiags = append(outDiags, Diagnostic{Offset: index, Byte: statusByte, Reason: fmt.Sprintf("status interrupts incomplete message 0x%02X", state.curStatus)})
		state.curStatus = 0
		state.count = 0
		state.needed = 0
	}

	switch {
	case statusByte == midi.SysExStart:
		state.inSysEx = true
		state.sysex = nil
		state.lastStatus = 0 // exclusive cancels running status
	case statusByte == midi.SysExEnd:
		// Stray terminator with no matching 0xF0
		outDiags = append(outDiags, Diagnostic{Offset: index, Byte: statusByte, Reason: "end of exclusive without start"})
		state.lastStatus = 0
	case midi.IsChannelStatus(statusByte):
		length, _ := midi.DataLength(statusByte)
		state.lastStatus = statusByte
		state.curStatus = statusByte
		state.needed = length
		state.count = 0
	default:
		// System common: cancels running status, 0xF4/0xF5 are undefined
		state.lastStatus = 0
		length, known := midi.DataLength(statusByte)
		if !known {
			outDiags = append(outDiags, Diagnostic{Offset: index, Byte: statusByte, Reason: "undefined system common status"})
			return
		}
		if length == 0 {
			*msgs = append(*msgs, state.emit(sourceID, statusByte, nil))
			return
		}
		state.curStatus = statusByte
		state.needed = length
		state.count = 0
	}
	return
}

// Handles a data byte (high bit clear)
func (state *State) consumeData(sourceID int, dataByte byte, index int, msgs *[]midi.Message, diags []Diagnostic) (outDiags []Diagnostic) {
	outDiags = diags

	if state.curStatus == 0 {
		if state.lastStatus == 0 {
			// No status to attribute this byte to, discard and resync
			outDiags = append(outDiags, Diagnostic{Offset: index, Byte: dataByte, Reason: "data byte with no running status"})
			return
		}

		// Running status: reuse the previous channel voice status
		length, _ := midi.DataLength(state.lastStatus)
		state.curStatus = state.lastStatus
		state.needed = length
		state.count = 0
	}

	state.data[state.count] = dataByte
	state.count++

	if state.count == state.needed {
		payload := append([]byte(nil), state.data[:state.needed]...)
		*msgs = append(*msgs, state.emit(sourceID, state.curStatus, payload))
		state.curStatus = 0
		state.count = 0
		state.needed = 0
	}
	return
}

// Builds a finished message stamped against the state's monotonic epoch
func (state *State) emit(sourceID int, status byte, data []byte) (msg midi.Message) {
	msg = midi.Message{
		SourceID:  sourceID,
		Status:    status,
		Data:      data,
		Timestamp: state.now(),
	}
	return
}
