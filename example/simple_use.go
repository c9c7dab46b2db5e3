package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/leandrodaf/rtdriver/internal/logger"
	"github.com/leandrodaf/rtdriver/internal/patchbay"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"github.com/leandrodaf/rtdriver/sdk/rtdriver"
)

// toneEngine plays a sine at the pitch of the last note received.
type toneEngine struct {
	log    contracts.Logger
	frame  atomic.Uint64
	rate   float64
	phase  float64
	freq   float64
	gain   float32
	events atomic.Uint64
}

func (e *toneEngine) Name() string  { return "simple-use" }
func (e *toneEngine) Frame() uint64 { return e.frame.Load() }

func (e *toneEngine) Init(_ string, bufferFrames uint32, sampleRate float64) error {
	e.rate = sampleRate
	e.log.Info("engine ready",
		e.log.Field().Uint32("buffer_frames", bufferFrames),
		e.log.Field().Float64("sample_rate", sampleRate),
	)
	return nil
}

func (e *toneEngine) Process(_, outs [][]float32, frames uint32, events []contracts.EngineEvent) {
	for _, ev := range events {
		switch ev.Data[0] & 0xF0 {
		case 0x90:
			if ev.Data[2] > 0 {
				e.freq = 440 * math.Pow(2, (float64(ev.Data[1])-69)/12)
				e.gain = float32(ev.Data[2]) / 127 * 0.2
				break
			}
			e.gain = 0
		case 0x80:
			e.gain = 0
		}
	}
	e.events.Add(uint64(len(events)))

	for i := uint32(0); i < frames; i++ {
		v := e.gain * float32(math.Sin(e.phase))
		e.phase += 2 * math.Pi * e.freq / e.rate
		for _, ch := range outs {
			ch[i] = v
		}
	}
	e.frame.Add(uint64(frames))
}

func (e *toneEngine) PatchbayCallback(n contracts.Notification) {
	e.log.Debug("patchbay",
		e.log.Field().String("type", n.Type.String()),
		e.log.Field().Int("group", n.GroupID),
		e.log.Field().Int("port", n.PortID),
		e.log.Field().String("name", n.Name),
	)
}

func (e *toneEngine) RunPendingRTEvents() {}
func (e *toneEngine) SetLastError(msg string) {
	e.log.Error("engine error", e.log.Field().String("error", msg))
}
func (e *toneEngine) Close() error { return nil }

func main() {
	log := logger.NewZapLogger()
	eng := &toneEngine{log: log}

	drv, err := rtdriver.NewDriver(eng,
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithBufferSize(256),
	)
	if err != nil {
		log.Error("Failed to initialize driver", log.Field().Error("error", err))
		return
	}
	defer drv.Destroy()

	if err := drv.Open(eng.Name()); err != nil {
		log.Error("Failed to open driver", log.Field().Error("error", err))
		return
	}
	defer drv.Close()

	// Route the engine to the first two playback channels.
	for i, port := range []int{patchbay.PortAudioOut1, patchbay.PortAudioOut2} {
		if _, err := drv.PatchbayConnect(patchbay.GroupEngine, port, patchbay.GroupAudioOut, i); err != nil {
			log.Warn("Failed to connect output", log.Field().Error("error", err))
		}
	}

	// Connect every MIDI source the engine can see.
	for i := 0; ; i++ {
		if _, err := drv.PatchbayConnect(patchbay.GroupMIDIIn, i, patchbay.GroupEngine, patchbay.PortMIDIIn); err != nil {
			break
		}
	}
	fmt.Println("Connected MIDI inputs:", drv.MIDIInputs())

	fmt.Printf("Running on %s at %.0f Hz, %d frames. Press Ctrl+C to exit.\n",
		drv.CurrentDriverName(), drv.SampleRate(), drv.BufferSize())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	log.Info("Stopping", log.Field().Uint64("midi_events", eng.events.Load()))
}
