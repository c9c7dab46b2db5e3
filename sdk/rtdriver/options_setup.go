package rtdriver

import (
	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/logger"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

const (
	defaultBufferSize = 512
	defaultSampleRate = 44100
)

// applyDefaultOptions sets default values for DriverOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify DriverOptions.
//
// Returns:
//   - contracts.DriverOptions: A structure containing the finalized driver options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.DriverOptions, error) {
	options := &contracts.DriverOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.AudioAPI == contracts.AudioAPIUnspecified {
		options.AudioAPI = audio.DefaultAPI()
	}
	if options.ProcessMode == 0 {
		options.ProcessMode = contracts.ProcessModeRack
	}
	if options.BufferSize == 0 {
		options.BufferSize = defaultBufferSize
	}
	if options.SampleRate == 0 {
		options.SampleRate = defaultSampleRate
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
