//go:build !cgo
// +build !cgo

package gomidi

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// NewRtMidi reports that rtmidi is unavailable in builds without cgo.
func NewRtMidi(log contracts.Logger) (midiport.Backend, error) {
	log.Warn("rtmidi requested in a build without cgo")
	return nil, fmt.Errorf("%w: rtmidi requires cgo", midiport.ErrUnsupportedAPI)
}
