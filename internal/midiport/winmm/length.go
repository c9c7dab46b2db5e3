// Package winmm is a midiport backend over the Windows multimedia MIDI API.
package winmm

// messageLength returns the size of a short MIDI message with the given
// status byte.
func messageLength(status byte) int {
	switch {
	case status < 0x80:
		return 0
	case status < 0xF0:
		switch status & 0xF0 {
		case 0xC0, 0xD0:
			return 2
		}
		return 3
	case status == 0xF1, status == 0xF3:
		return 2
	case status == 0xF2:
		return 3
	}
	return 1
}
