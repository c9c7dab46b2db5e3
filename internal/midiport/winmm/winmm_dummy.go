//go:build !windows
// +build !windows

package winmm

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// New reports that WinMM is unavailable off Windows.
func New(log contracts.Logger) (midiport.Backend, error) {
	log.Warn("WinMM requested on a non-Windows system")
	return nil, fmt.Errorf("%w: WinMM", midiport.ErrUnsupportedAPI)
}
