package midiport

import (
	"runtime"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// API names a native MIDI subsystem.
type API int

const (
	APIUnspecified API = iota
	APIALSA
	APICoreMIDI
	APIWinMM
	APIJACK
	APIDummy
)

func (a API) String() string {
	switch a {
	case APIALSA:
		return "ALSA"
	case APICoreMIDI:
		return "CoreMIDI"
	case APIWinMM:
		return "WinMM"
	case APIJACK:
		return "JACK"
	case APIDummy:
		return "Dummy"
	default:
		return "Unspecified"
	}
}

// MatchAudioAPI returns the MIDI API paired with an audio API. JACK audio is
// paired with the host platform's MIDI API.
func MatchAudioAPI(api contracts.AudioAPI) API {
	return matchAudioAPI(api, runtime.GOOS)
}

func matchAudioAPI(api contracts.AudioAPI, goos string) API {
	switch api {
	case contracts.AudioAPIUnspecified:
		return APIUnspecified
	case contracts.AudioAPIALSA, contracts.AudioAPIOSS, contracts.AudioAPIPulse:
		return APIALSA
	case contracts.AudioAPIJACK:
		switch goos {
		case "windows":
			return APIWinMM
		case "darwin":
			return APICoreMIDI
		case "linux":
			return APIALSA
		default:
			return APIJACK
		}
	case contracts.AudioAPICore:
		return APICoreMIDI
	case contracts.AudioAPIASIO, contracts.AudioAPIDirectSound:
		return APIWinMM
	case contracts.AudioAPINull:
		return APIDummy
	}
	return APIUnspecified
}
