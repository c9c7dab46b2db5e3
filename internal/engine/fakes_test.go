package engine

import (
	"errors"
	"sync"

	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

type fakeStream struct {
	rate     float64
	frames   uint32
	startErr error
	stopErr  error
	running  bool
	closed   bool
}

func (s *fakeStream) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.running = true
	return nil
}

func (s *fakeStream) Stop() error {
	s.running = false
	return s.stopErr
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func (s *fakeStream) IsRunning() bool      { return s.running }
func (s *fakeStream) SampleRate() float64  { return s.rate }
func (s *fakeStream) BufferFrames() uint32 { return s.frames }

type fakeSystem struct {
	api     contracts.AudioAPI
	devices []contracts.DeviceInfo
	defIn   int
	defOut  int
	openErr error
	stream  *fakeStream
	params  audio.StreamParams
	cb      audio.Callback
	closed  bool
}

func (s *fakeSystem) API() contracts.AudioAPI { return s.api }

func (s *fakeSystem) Devices() ([]contracts.DeviceInfo, error) { return s.devices, nil }

func (s *fakeSystem) DefaultInputDevice() int  { return s.defIn }
func (s *fakeSystem) DefaultOutputDevice() int { return s.defOut }

func (s *fakeSystem) OpenStream(params audio.StreamParams, cb audio.Callback) (audio.Stream, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.params = params
	s.cb = cb
	return s.stream, nil
}

func (s *fakeSystem) Close() error {
	s.closed = true
	return nil
}

func newSystem() *fakeSystem {
	return &fakeSystem{
		api: contracts.AudioAPIALSA,
		devices: []contracts.DeviceInfo{
			{ID: 0, Name: "Built-in", Probed: true, InputChannels: 2, OutputChannels: 2, DefaultSampleRate: 44100},
			{ID: 1, Name: "Scarlett", Probed: true, InputChannels: 4, OutputChannels: 4, DefaultSampleRate: 48000},
		},
		stream: &fakeStream{rate: 48000, frames: 256},
	}
}

type fakeInput struct {
	handler   midiport.InputHandler
	cancelled bool
	closed    bool
}

func (f *fakeInput) Cancel() { f.cancelled = true }

func (f *fakeInput) Close() error {
	f.closed = true
	return nil
}

type fakeOutput struct{ closed bool }

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

type fakeMIDI struct {
	sources []string
	sinks   []string
	inputs  map[string]*fakeInput
	outputs map[string]*fakeOutput
	closed  bool
}

func newMIDI() *fakeMIDI {
	return &fakeMIDI{
		sources: []string{"Keys", "Pads"},
		sinks:   []string{"Synth"},
		inputs:  map[string]*fakeInput{},
		outputs: map[string]*fakeOutput{},
	}
}

func (m *fakeMIDI) Sources() ([]string, error) { return m.sources, nil }
func (m *fakeMIDI) Sinks() ([]string, error)   { return m.sinks, nil }

func (m *fakeMIDI) OpenInput(portName, _ string, h midiport.InputHandler) (midiport.Input, error) {
	for _, s := range m.sources {
		if s == portName {
			in := &fakeInput{handler: h}
			m.inputs[portName] = in
			return in, nil
		}
	}
	return nil, midiport.ErrPortNotFound
}

func (m *fakeMIDI) OpenOutput(portName, _ string) (midiport.Output, error) {
	for _, s := range m.sinks {
		if s == portName {
			out := &fakeOutput{}
			m.outputs[portName] = out
			return out, nil
		}
	}
	return nil, midiport.ErrPortNotFound
}

func (m *fakeMIDI) Close() error {
	m.closed = true
	return nil
}

type fakeEngine struct {
	mu sync.Mutex

	frame     uint64
	initErr   error
	closeErr  error
	lastError string
	closed    bool

	initFrames uint32
	initRate   float64

	processed   int
	deferred    int
	events      []contracts.EngineEvent
	render      func(ins, outs [][]float32, frames uint32)
	notifyTypes []contracts.NotificationType
	notes       []contracts.Notification
}

func (e *fakeEngine) Name() string { return "host" }

func (e *fakeEngine) Frame() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *fakeEngine) setFrame(f uint64) {
	e.mu.Lock()
	e.frame = f
	e.mu.Unlock()
}

func (e *fakeEngine) Process(ins, outs [][]float32, frames uint32, events []contracts.EngineEvent) {
	e.processed++
	e.events = append(e.events[:0], events...)
	if e.render != nil {
		e.render(ins, outs, frames)
	}
}

func (e *fakeEngine) PatchbayCallback(n contracts.Notification) {
	e.notes = append(e.notes, n)
}

func (e *fakeEngine) RunPendingRTEvents() { e.deferred++ }

func (e *fakeEngine) SetLastError(msg string) { e.lastError = msg }

func (e *fakeEngine) Init(_ string, frames uint32, rate float64) error {
	e.initFrames = frames
	e.initRate = rate
	return e.initErr
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return e.closeErr
}

func (e *fakeEngine) count(t contracts.NotificationType) int {
	n := 0
	for _, note := range e.notes {
		if note.Type == t {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")
