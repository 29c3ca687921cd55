// Wire-level MIDI message model shared by the decoder, router, and egress
package midi

import "fmt"

// A single decoded MIDI message. Immutable once created.
// Data holds the message's data bytes (0-2 for channel voice and system
// common messages, the full payload for system exclusive messages,
// excluding the 0xF0/0xF7 delimiters).
type Message struct {
	SourceID  int
	Status    byte
	Data      []byte
	Timestamp int64 // monotonic nanoseconds relative to the decoder's creation
}

// Channel extracts the channel from the status low nibble.
// Only meaningful for channel voice messages.
func (msg Message) Channel() (channel uint8, isChannelMsg bool) {
	if IsChannelStatus(msg.Status) {
		channel = msg.Status & 0x0F
		isChannelMsg = true
	}
	return
}

// Serializes the message back to raw status+data bytes.
// Running status omission is never reproduced, every message carries its
// own status byte.
func (msg Message) Encode() (raw []byte) {
	if msg.Status == SysExStart {
		raw = make([]byte, 0, len(msg.Data)+2)
		raw = append(raw, SysExStart)
		raw = append(raw, msg.Data...)
		raw = append(raw, SysExEnd)
		return
	}

	raw = make([]byte, 0, len(msg.Data)+1)
	raw = append(raw, msg.Status)
	raw = append(raw, msg.Data...)
	return
}

// Reports whether two messages carry the same status and data bytes.
// Source identity and timestamps are intentionally excluded.
func (msg Message) EqualBytes(other Message) bool {
	if msg.Status != other.Status || len(msg.Data) != len(other.Data) {
		return false
	}
	for i := range msg.Data {
		if msg.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// Human readable summary for diagnostics
func (msg Message) String() (text string) {
	channel, isChannelMsg := msg.Channel()
	if isChannelMsg {
		text = fmt.Sprintf("source %d: status 0x%02X channel %d data % X", msg.SourceID, msg.Status, channel, msg.Data)
		return
	}
	if msg.Status == SysExStart {
		text = fmt.Sprintf("source %d: system exclusive (%d bytes)", msg.SourceID, len(msg.Data))
		return
	}
	text = fmt.Sprintf("source %d: status 0x%02X data % X", msg.SourceID, msg.Status, msg.Data)
	return
}
