//go:build windows
// +build windows

package winmm

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

type hMIDIIn windows.Handle
type hMIDIOut windows.Handle

const (
	callbackNull     = 0x00000000
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInReset       = winmm.NewProc("midiInReset")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// The callback trampoline is created once; NewCallback slots are limited.
var (
	callbackOnce sync.Once
	callbackPtr  uintptr

	// inputs maps the instance cookie handed to midiInOpen to its input.
	inputs     sync.Map
	nextCookie atomic.Uintptr
)

// Backend enumerates and opens WinMM MIDI devices.
type Backend struct {
	log contracts.Logger
}

// New returns the WinMM backend.
func New(log contracts.Logger) (midiport.Backend, error) {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})
	log.Debug("WinMM MIDI backend ready")
	return &Backend{log: log}, nil
}

func (b *Backend) Sources() ([]string, error) {
	n, _, _ := procMidiInGetNumDevs.Call()
	names := make([]string, 0, n)
	for i := uintptr(0); i < n; i++ {
		var caps midiInCaps
		r, _, _ := procMidiInGetDevCaps.Call(i, uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r != 0 {
			b.log.Warn("failed to read MIDI input capabilities", b.log.Field().Int("device", int(i)))
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

func (b *Backend) Sinks() ([]string, error) {
	n, _, _ := procMidiOutGetNumDevs.Call()
	names := make([]string, 0, n)
	for i := uintptr(0); i < n; i++ {
		var caps midiOutCaps
		r, _, _ := procMidiOutGetDevCaps.Call(i, uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r != 0 {
			b.log.Warn("failed to read MIDI output capabilities", b.log.Field().Int("device", int(i)))
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

func (b *Backend) OpenInput(portName, _ string, h midiport.InputHandler) (midiport.Input, error) {
	names, _ := b.Sources()
	id := indexOf(names, portName)
	if id < 0 {
		return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
	}

	in := &input{handler: h, log: b.log, cookie: nextCookie.Add(1)}
	inputs.Store(in.cookie, in)

	r, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&in.handle)),
		uintptr(id),
		callbackPtr,
		in.cookie,
		callbackFunction|midiIOStatus,
	)
	if r != 0 {
		inputs.Delete(in.cookie)
		return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
	}

	if r, _, err := procMidiInStart.Call(uintptr(in.handle)); r != 0 {
		procMidiInClose.Call(uintptr(in.handle))
		inputs.Delete(in.cookie)
		return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
	}
	return in, nil
}

func (b *Backend) OpenOutput(portName, _ string) (midiport.Output, error) {
	names, _ := b.Sinks()
	id := indexOf(names, portName)
	if id < 0 {
		return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
	}

	out := &output{}
	r, _, err := procMidiOutOpen.Call(uintptr(unsafe.Pointer(&out.handle)), uintptr(id), 0, 0, callbackNull)
	if r != 0 {
		return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
	}
	return out, nil
}

func (b *Backend) Close() error { return nil }

type input struct {
	handle  hMIDIIn
	cookie  uintptr
	handler midiport.InputHandler
	log     contracts.Logger

	// lastMS is the previous message's timestamp, in ms since midiInStart.
	lastMS  uintptr
	started bool
}

func (in *input) delta(ms uintptr) float64 {
	if !in.started {
		in.started = true
		in.lastMS = ms
		return 0
	}
	d := float64(ms-in.lastMS) / 1000
	in.lastMS = ms
	return d
}

func (in *input) Cancel() {
	procMidiInStop.Call(uintptr(in.handle))
	procMidiInReset.Call(uintptr(in.handle))
}

func (in *input) Close() error {
	defer inputs.Delete(in.cookie)
	if r, _, err := procMidiInClose.Call(uintptr(in.handle)); r != 0 {
		return fmt.Errorf("midiInClose: %v", err)
	}
	return nil
}

type output struct {
	handle hMIDIOut
}

func (o *output) Close() error {
	if r, _, err := procMidiOutClose.Call(uintptr(o.handle)); r != 0 {
		return fmt.Errorf("midiOutClose: %v", err)
	}
	return nil
}

func midiInCallback(_ uintptr, msg uintptr, instance uintptr, param1 uintptr, param2 uintptr) uintptr {
	v, ok := inputs.Load(instance)
	if !ok {
		return 0
	}
	in := v.(*input)

	switch msg {
	case mimData:
		var buf [3]byte
		buf[0] = byte(param1)
		buf[1] = byte(param1 >> 8)
		buf[2] = byte(param1 >> 16)
		in.handler(in.delta(param2), buf[:messageLength(buf[0])])
	case mimError, mimLongError:
		in.log.Warn("MIDI input error", in.log.Field().Uint32("message", uint32(msg)))
	case mimOpen, mimClose, mimMoreData:
	}
	return 0
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
