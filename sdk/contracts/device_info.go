package contracts

// DeviceInfo contains information about an audio device as reported by the audio subsystem.
type DeviceInfo struct {
	ID                int     // Subsystem-specific device index.
	Name              string  // Device name.
	Probed            bool    // True when the device capabilities were successfully queried.
	InputChannels     int     // Maximum number of capture channels.
	OutputChannels    int     // Maximum number of playback channels.
	DefaultSampleRate float64 // Sample rate the device prefers.
}
