// Package null provides the audio subsystem variant that has no devices.
package null

import (
	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// System is an audio subsystem without devices. Opening a driver on it fails
// with "no audio devices".
type System struct{}

// New returns the null audio system.
func New() (audio.System, error) {
	return System{}, nil
}

func (System) API() contracts.AudioAPI { return contracts.AudioAPINull }

func (System) Devices() ([]contracts.DeviceInfo, error) { return nil, nil }

func (System) DefaultInputDevice() int { return -1 }

func (System) DefaultOutputDevice() int { return -1 }

func (System) OpenStream(audio.StreamParams, audio.Callback) (audio.Stream, error) {
	return nil, audio.ErrUnsupportedAPI
}

func (System) Close() error { return nil }
