//go:build cgo
// +build cgo

// Package paudio implements audio.System on top of PortAudio.
package paudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/audio/rtprio"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// hostAPIs maps driver audio APIs to PortAudio host APIs. PulseAudio is
// reached through PortAudio's ALSA host.
var hostAPIs = map[contracts.AudioAPI]portaudio.HostApiType{
	contracts.AudioAPIJACK:        portaudio.JACK,
	contracts.AudioAPIALSA:        portaudio.ALSA,
	contracts.AudioAPIPulse:       portaudio.ALSA,
	contracts.AudioAPIOSS:         portaudio.OSS,
	contracts.AudioAPICore:        portaudio.CoreAudio,
	contracts.AudioAPIASIO:        portaudio.ASIO,
	contracts.AudioAPIDirectSound: portaudio.DirectSound,
}

// System is a PortAudio host API.
type System struct {
	api       contracts.AudioAPI
	host      *portaudio.HostApiInfo
	closeOnce sync.Once
}

// New initializes PortAudio and binds to the host API matching api.
func New(api contracts.AudioAPI) (audio.System, error) {
	hostType, ok := hostAPIs[api]
	if !ok {
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedAPI, audio.APIName(api))
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio initialize: %w", err)
	}

	host, err := portaudio.HostApi(hostType)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %s: %v", audio.ErrUnsupportedAPI, audio.APIName(api), err)
	}

	return &System{api: api, host: host}, nil
}

func (s *System) API() contracts.AudioAPI {
	return s.api
}

// Devices lists the devices of the bound host API.
func (s *System) Devices() ([]contracts.DeviceInfo, error) {
	devs := make([]contracts.DeviceInfo, 0, len(s.host.Devices))
	for _, d := range s.host.Devices {
		devs = append(devs, toDeviceInfo(d))
	}
	return devs, nil
}

func (s *System) DefaultInputDevice() int {
	if s.host.DefaultInputDevice == nil {
		return -1
	}
	return s.host.DefaultInputDevice.Index
}

func (s *System) DefaultOutputDevice() int {
	if s.host.DefaultOutputDevice == nil {
		return -1
	}
	return s.host.DefaultOutputDevice.Index
}

// OpenStream opens a non-interleaved float32 stream. audio.FlagHogDevice is
// ignored.
func (s *System) OpenStream(params audio.StreamParams, cb audio.Callback) (audio.Stream, error) {
	devs, _ := s.Devices()
	params, err := audio.ResolveDevices(devs, params)
	if err != nil {
		return nil, err
	}

	out := s.device(params.OutputDevice)
	if out == nil {
		return nil, fmt.Errorf("%w: output device %d not found", audio.ErrStreamOpen, params.OutputDevice)
	}

	pa := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   out,
			Channels: params.OutputChannels,
			Latency:  out.DefaultHighOutputLatency,
		},
		SampleRate:      params.SampleRate,
		FramesPerBuffer: int(params.BufferFrames),
		Flags:           portaudio.ClipOff | portaudio.DitherOff,
	}
	if params.Flags.Has(audio.FlagMinimizeLatency) {
		pa.Output.Latency = out.DefaultLowOutputLatency
	}

	st := &stream{
		cb:     cb,
		frames: params.BufferFrames,
	}
	if params.Flags.Has(audio.FlagScheduleRealtime) {
		st.prio.Priority = params.Priority
	}

	if params.InputChannels > 0 {
		in := s.device(params.InputDevice)
		if in == nil {
			return nil, fmt.Errorf("%w: input device %d not found", audio.ErrStreamOpen, params.InputDevice)
		}
		pa.Input = portaudio.StreamDeviceParameters{
			Device:   in,
			Channels: params.InputChannels,
			Latency:  in.DefaultHighInputLatency,
		}
		if params.Flags.Has(audio.FlagMinimizeLatency) {
			pa.Input.Latency = in.DefaultLowInputLatency
		}
		st.pa, err = portaudio.OpenStream(pa, st.duplex)
	} else {
		st.pa, err = portaudio.OpenStream(pa, st.playback)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrStreamOpen, err)
	}

	st.rate = params.SampleRate
	if info := st.pa.Info(); info != nil && info.SampleRate > 0 {
		st.rate = info.SampleRate
	}
	return st, nil
}

// Close terminates PortAudio.
func (s *System) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = portaudio.Terminate()
	})
	return err
}

func (s *System) device(index int) *portaudio.DeviceInfo {
	for _, d := range s.host.Devices {
		if d.Index == index {
			return d
		}
	}
	return nil
}

func toDeviceInfo(d *portaudio.DeviceInfo) contracts.DeviceInfo {
	return contracts.DeviceInfo{
		ID:                d.Index,
		Name:              d.Name,
		Probed:            true,
		InputChannels:     d.MaxInputChannels,
		OutputChannels:    d.MaxOutputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
	}
}

type stream struct {
	pa      *portaudio.Stream
	cb      audio.Callback
	prio    rtprio.Hint
	rate    float64
	frames  uint32
	running atomic.Bool
}

func (s *stream) duplex(in, out [][]float32) {
	s.prio.Apply()
	s.cb(out, in, uint32(frameCount(out)))
}

func (s *stream) playback(out [][]float32) {
	s.prio.Apply()
	s.cb(out, nil, uint32(frameCount(out)))
}

func frameCount(bufs [][]float32) int {
	if len(bufs) == 0 {
		return 0
	}
	return len(bufs[0])
}

func (s *stream) Start() error {
	if err := s.pa.Start(); err != nil {
		return fmt.Errorf("%w: %v", audio.ErrStreamStart, err)
	}
	s.running.Store(true)
	return nil
}

func (s *stream) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	if err := s.pa.Stop(); err != nil {
		return fmt.Errorf("%w: %v", audio.ErrStreamStop, err)
	}
	return nil
}

func (s *stream) Close() error {
	s.running.Store(false)
	return s.pa.Close()
}

func (s *stream) IsRunning() bool      { return s.running.Load() }
func (s *stream) SampleRate() float64  { return s.rate }
func (s *stream) BufferFrames() uint32 { return s.frames }
