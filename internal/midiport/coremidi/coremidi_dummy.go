//go:build !darwin
// +build !darwin

package coremidi

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// New reports that CoreMIDI is unavailable off macOS.
func New(clientName string, log contracts.Logger) (midiport.Backend, error) {
	log.Warn("CoreMIDI requested on a non-macOS system", log.Field().String("client", clientName))
	return nil, fmt.Errorf("%w: CoreMIDI", midiport.ErrUnsupportedAPI)
}
