package rtdriver

import (
	"github.com/leandrodaf/rtdriver/internal/engine"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// NewDriver creates a real-time audio/MIDI driver rendering through engine.
// It applies default options and initializes the native audio and MIDI
// subsystems for the configured audio API.
//
// opts ...contracts.Option: A variadic list of option functions to customize the driver configuration.
//
// Returns:
//   - contracts.Driver: A closed driver; call Open to start the stream.
//   - error: An error if the audio subsystem could not be initialized.
func NewDriver(eng contracts.Engine, opts ...contracts.Option) (contracts.Driver, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	sys, midi, err := NewSubsystems(eng.Name(), &options)
	if err != nil {
		return nil, err
	}

	return engine.New(eng, sys, midi, options), nil
}
