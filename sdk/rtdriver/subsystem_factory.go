package rtdriver

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/audio/null"
	"github.com/leandrodaf/rtdriver/internal/audio/paudio"
	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/internal/midiport/coremidi"
	"github.com/leandrodaf/rtdriver/internal/midiport/gomidi"
	"github.com/leandrodaf/rtdriver/internal/midiport/winmm"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// ErrUnsupportedAPI is returned when no audio subsystem exists for the configured API.
var ErrUnsupportedAPI = errors.New("unsupported audio API")

// audioInitializers maps audio APIs to the subsystem serving them.
var audioInitializers = map[contracts.AudioAPI]func(contracts.AudioAPI) (audio.System, error){
	contracts.AudioAPINull:        func(contracts.AudioAPI) (audio.System, error) { return null.New() },
	contracts.AudioAPIJACK:        paudio.New,
	contracts.AudioAPIALSA:        paudio.New,
	contracts.AudioAPIOSS:         paudio.New,
	contracts.AudioAPIPulse:       paudio.New,
	contracts.AudioAPICore:        paudio.New,
	contracts.AudioAPIASIO:        paudio.New,
	contracts.AudioAPIDirectSound: paudio.New,
}

// midiInitializers maps MIDI APIs to the backend serving them. APIs missing
// here fall back to rtmidi.
var midiInitializers = map[midiport.API]func(clientName string, log contracts.Logger) (midiport.Backend, error){
	midiport.APIDummy:    func(string, contracts.Logger) (midiport.Backend, error) { return midiport.NoPorts{}, nil },
	midiport.APICoreMIDI: coremidi.New,
	midiport.APIWinMM:    func(_ string, log contracts.Logger) (midiport.Backend, error) { return winmm.New(log) },
}

// NewSubsystems initializes the audio system for opts.AudioAPI and the MIDI
// backend paired with it. A MIDI backend that fails to initialize is replaced
// by one without ports so audio keeps working.
func NewSubsystems(clientName string, opts *contracts.DriverOptions) (audio.System, midiport.Backend, error) {
	initAudio, ok := audioInitializers[opts.AudioAPI]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedAPI, audio.APIName(opts.AudioAPI))
	}

	sys, err := initAudio(opts.AudioAPI)
	if err != nil {
		return nil, nil, err
	}

	api := midiport.MatchAudioAPI(opts.AudioAPI)
	initMIDI, ok := midiInitializers[api]
	if !ok {
		initMIDI = func(_ string, log contracts.Logger) (midiport.Backend, error) { return gomidi.NewRtMidi(log) }
	}

	midi, err := initMIDI(clientName, opts.Logger)
	if err != nil {
		opts.Logger.Warn("MIDI unavailable, continuing without ports",
			opts.Logger.Field().String("midi_api", api.String()),
			opts.Logger.Field().Error("error", err),
		)
		midi = midiport.NoPorts{}
	}
	return sys, midi, nil
}
