//go:build !cgo
// +build !cgo

package paudio

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// New reports that PortAudio is unavailable in builds without cgo.
func New(api contracts.AudioAPI) (audio.System, error) {
	return nil, fmt.Errorf("%w: %s requires cgo", audio.ErrUnsupportedAPI, audio.APIName(api))
}
