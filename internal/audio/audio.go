// Package audio abstracts the native audio subsystem the driver opens its
// hardware stream on.
package audio

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Errors returned by System implementations.
var (
	ErrUnsupportedAPI = errors.New("audio API not available on this platform")
	ErrNoStream       = errors.New("no stream open")
	ErrStreamOpen     = errors.New("error opening audio stream")
	ErrStreamStart    = errors.New("error starting audio stream")
	ErrStreamStop     = errors.New("error stopping audio stream")
)

// StreamFlags are passed to the subsystem when opening a stream.
type StreamFlags uint32

const (
	// FlagNonInterleaved must be set: Callback only carries one buffer per
	// channel.
	FlagNonInterleaved StreamFlags = 1 << iota
	// FlagMinimizeLatency selects the device's low latency instead of its
	// high latency.
	FlagMinimizeLatency
	// FlagHogDevice asks for exclusive device access. It is a hint only;
	// PortAudio exposes no way to hog a device.
	FlagHogDevice
	// FlagScheduleRealtime raises the callback thread to StreamParams.Priority.
	FlagScheduleRealtime
	// FlagALSAUseDefault opens the ALSA "default" PCM instead of the
	// selected hardware device when one is listed.
	FlagALSAUseDefault
)

// ALSADefaultDevice is the name ALSA gives its default PCM.
const ALSADefaultDevice = "default"

// Has reports whether every bit of f is set.
func (s StreamFlags) Has(f StreamFlags) bool {
	return s&f == f
}

// StreamParams describes the stream the driver asks for. BufferFrames and
// SampleRate are requests; the stream reports what was negotiated.
type StreamParams struct {
	Name           string
	InputDevice    int
	OutputDevice   int
	InputChannels  int
	OutputChannels int
	SampleRate     float64
	BufferFrames   uint32
	Flags          StreamFlags
	Priority       int
}

// Callback renders one period of non-interleaved float32 audio.
type Callback func(outs, ins [][]float32, frames uint32)

// Stream is one open hardware stream.
type Stream interface {
	Start() error
	Stop() error
	Close() error
	IsRunning() bool

	// SampleRate and BufferFrames report the negotiated values.
	SampleRate() float64
	BufferFrames() uint32
}

// System is a native audio subsystem.
type System interface {
	API() contracts.AudioAPI
	Devices() ([]contracts.DeviceInfo, error)
	DefaultInputDevice() int
	DefaultOutputDevice() int
	OpenStream(params StreamParams, cb Callback) (Stream, error)
	Close() error
}

// Device returns the device with the given id from devs.
func Device(devs []contracts.DeviceInfo, id int) (contracts.DeviceInfo, bool) {
	for _, d := range devs {
		if d.ID == id {
			return d, true
		}
	}
	return contracts.DeviceInfo{}, false
}

// ResolveDevices applies the device-related flags of p against devs and
// returns the params a subsystem should open. With FlagALSAUseDefault the
// input and output devices are swapped for ALSADefaultDevice when it has
// enough channels for each direction.
func ResolveDevices(devs []contracts.DeviceInfo, p StreamParams) (StreamParams, error) {
	if !p.Flags.Has(FlagNonInterleaved) {
		return p, fmt.Errorf("%w: interleaved buffers are not supported", ErrStreamOpen)
	}
	if !p.Flags.Has(FlagALSAUseDefault) {
		return p, nil
	}

	for _, d := range devs {
		if d.Name != ALSADefaultDevice {
			continue
		}
		if d.OutputChannels >= p.OutputChannels {
			p.OutputDevice = d.ID
		}
		if p.InputChannels > 0 && d.InputChannels >= p.InputChannels {
			p.InputDevice = d.ID
		}
		break
	}
	return p, nil
}
