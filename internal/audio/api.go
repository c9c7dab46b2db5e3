package audio

import (
	"runtime"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// APIName returns the display name of an audio API.
func APIName(api contracts.AudioAPI) string {
	switch api {
	case contracts.AudioAPIUnspecified:
		return "Unspecified"
	case contracts.AudioAPINull:
		return "Dummy"
	case contracts.AudioAPIJACK:
		switch runtime.GOOS {
		case "windows":
			return "JACK with WinMM"
		case "darwin":
			return "JACK with CoreMidi"
		case "linux":
			return "JACK with ALSA-MIDI"
		default:
			return "JACK (RtAudio)"
		}
	case contracts.AudioAPIALSA:
		return "ALSA"
	case contracts.AudioAPIOSS:
		return "OSS"
	case contracts.AudioAPIPulse:
		return "PulseAudio"
	case contracts.AudioAPICore:
		return "CoreAudio"
	case contracts.AudioAPIASIO:
		return "ASIO"
	case contracts.AudioAPIDirectSound:
		return "DirectSound"
	}
	return ""
}

// DefaultAPI is the audio API used when none is configured.
func DefaultAPI() contracts.AudioAPI {
	switch runtime.GOOS {
	case "linux":
		return contracts.AudioAPIALSA
	case "darwin":
		return contracts.AudioAPICore
	case "windows":
		return contracts.AudioAPIDirectSound
	default:
		return contracts.AudioAPINull
	}
}
