//go:build cgo
// +build cgo

package gomidi

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// NewRtMidi opens the platform MIDI API through rtmidi.
func NewRtMidi(log contracts.Logger) (midiport.Backend, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	log.Debug("rtmidi driver opened", log.Field().String("driver", drv.String()))
	return New(drv, log), nil
}
