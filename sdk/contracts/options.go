package contracts

// DriverOptions defines the configuration options for a driver.
type DriverOptions struct {
	Logger      Logger             // Logger for logging events and errors.
	LogLevel    LogLevel           // Level of logging to use.
	AudioAPI    AudioAPI           // Native audio subsystem.
	ProcessMode ProcessMode        // Internal graph topology.
	AudioDevice string             // Preferred device name; empty selects the platform default.
	BufferSize  uint32             // Requested frames per period.
	SampleRate  float64            // Requested sample rate.
	Reconciler  PatchbayReconciler // Optional patchbay-mode graph reconciler.
}

// Option is a function that modifies DriverOptions.
type Option func(*DriverOptions)

// WithLogger sets the logger for the driver.
func WithLogger(l Logger) Option {
	return func(opts *DriverOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the driver.
func WithLogLevel(level LogLevel) Option {
	return func(opts *DriverOptions) {
		opts.LogLevel = level
	}
}

// WithAudioAPI selects the native audio subsystem.
func WithAudioAPI(api AudioAPI) Option {
	return func(opts *DriverOptions) {
		opts.AudioAPI = api
	}
}

// WithProcessMode selects the internal graph topology.
func WithProcessMode(mode ProcessMode) Option {
	return func(opts *DriverOptions) {
		opts.ProcessMode = mode
	}
}

// WithAudioDevice selects an audio device by exact name.
func WithAudioDevice(name string) Option {
	return func(opts *DriverOptions) {
		opts.AudioDevice = name
	}
}

// WithBufferSize sets the requested buffer size in frames.
func WithBufferSize(frames uint32) Option {
	return func(opts *DriverOptions) {
		opts.BufferSize = frames
	}
}

// WithSampleRate sets the requested sample rate.
func WithSampleRate(rate float64) Option {
	return func(opts *DriverOptions) {
		opts.SampleRate = rate
	}
}

// WithPatchbayReconciler sets the reconciler used in patchbay mode.
func WithPatchbayReconciler(r PatchbayReconciler) Option {
	return func(opts *DriverOptions) {
		opts.Reconciler = r
	}
}
