package engine

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Open selects the devices, opens and starts the hardware stream and
// announces the patchbay.
func (d *Driver) Open(clientName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		return ErrAlreadyOpen
	}
	if clientName == "" {
		return d.fail(ErrEmptyClientName)
	}
	if d.opts.ProcessMode != contracts.ProcessModeRack && d.opts.ProcessMode != contracts.ProcessModePatchbay {
		return d.fail(ErrInvalidProcessMode)
	}

	devs, err := d.sys.Devices()
	if err != nil {
		return d.fail(err)
	}
	if len(devs) == 0 {
		return d.fail(ErrNoDevices)
	}

	in, out := d.selectDevices(devs)
	if out.OutputChannels == 0 {
		return d.fail(ErrNoOutputs)
	}

	params := audio.StreamParams{
		Name:           clientName,
		InputDevice:    in.ID,
		OutputDevice:   out.ID,
		InputChannels:  in.InputChannels,
		OutputChannels: out.OutputChannels,
		SampleRate:     d.opts.SampleRate,
		BufferFrames:   d.opts.BufferSize,
		Flags:          audio.FlagNonInterleaved | audio.FlagMinimizeLatency | audio.FlagHogDevice | audio.FlagScheduleRealtime,
		Priority:       streamPriority,
	}
	if d.sys.API() == contracts.AudioAPIALSA && d.opts.AudioDevice == "" {
		params.Flags |= audio.FlagALSAUseDefault
	}

	stream, err := d.sys.OpenStream(params, d.callback)
	if err != nil {
		return d.fail(err)
	}

	d.stream = stream
	d.clientName = clientName
	d.deviceName = out.Name
	d.inputs = uint32(params.InputChannels)
	d.outputs = uint32(params.OutputChannels)
	d.sampleRate = stream.SampleRate()
	frames := stream.BufferFrames()
	d.bufferFrames.Store(frames)
	if d.graph.IsRack() {
		for i := range d.rackIns {
			d.rackIns[i] = make([]float32, frames)
			d.rackOuts[i] = make([]float32, frames)
		}
	}
	d.registry = midiport.NewRegistry(d.midi, clientName, d.ingest, d.log)

	d.log.Info("audio stream opened",
		d.log.Field().String("device", d.deviceName),
		d.log.Field().Uint32("inputs", d.inputs),
		d.log.Field().Uint32("outputs", d.outputs),
		d.log.Field().Uint32("buffer_frames", frames),
		d.log.Field().Float64("sample_rate", d.sampleRate),
	)

	if err := stream.Start(); err != nil {
		d.closeLocked()
		return d.fail(err)
	}
	if err := d.engine.Init(clientName, frames, d.sampleRate); err != nil {
		d.closeLocked()
		return d.fail(fmt.Errorf("engine init: %w", err))
	}

	d.ready.Store(true)

	if err := d.graph.Refresh(hardware{d}); err != nil {
		d.log.Warn("patchbay refresh failed", d.log.Field().Error("error", err))
	}
	return nil
}

// selectDevices picks the listed device named by the options when it has
// outputs, else the platform defaults.
func (d *Driver) selectDevices(devs []contracts.DeviceInfo) (in, out contracts.DeviceInfo) {
	if name := d.opts.AudioDevice; name != "" {
		for _, dev := range devs {
			if dev.Probed && dev.OutputChannels > 0 && dev.Name == name {
				return dev, dev
			}
		}
		d.log.Warn("audio device not found, using defaults", d.log.Field().String("device", name))
	}

	in, _ = audio.Device(devs, d.sys.DefaultInputDevice())
	out, _ = audio.Device(devs, d.sys.DefaultOutputDevice())
	d.log.Info("using default audio devices",
		d.log.Field().String("input", in.Name),
		d.log.Field().String("output", out.Name),
	)
	return in, out
}

// Close stops the stream and releases every port. Teardown always runs to the
// end; the first engine or stream error is returned.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		assertOpened(d.log)
		return ErrNotOpen
	}

	if err := d.closeLocked(); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *Driver) closeLocked() error {
	d.ready.Store(false)

	var first error
	if err := d.engine.Close(); err != nil {
		first = fmt.Errorf("engine close: %w", err)
	}

	if d.stream.IsRunning() {
		if err := d.stream.Stop(); err != nil && first == nil {
			first = err
		}
	}
	if err := d.stream.Close(); err != nil {
		d.log.Warn("error closing audio stream", d.log.Field().Error("error", err))
	}

	if err := d.registry.CloseAll(); err != nil {
		d.log.Warn("errors closing MIDI ports",
			d.log.Field().Int("count", len(multierr.Errors(err))),
			d.log.Field().Error("error", err),
		)
	}

	d.queue.Clear()
	d.graph.Clear()

	d.stream = nil
	d.registry = nil
	d.inputs = 0
	d.outputs = 0
	d.deviceName = ""
	d.log.Info("audio stream closed")
	return first
}

// Destroy closes the driver if open and releases the native subsystems.
func (d *Driver) Destroy() error {
	var err error

	d.mu.Lock()
	if d.stream != nil {
		err = d.closeLocked()
	}
	d.mu.Unlock()

	return multierr.Combine(err, d.midi.Close(), d.sys.Close())
}
