package engine

import (
	midi "gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

func (d *Driver) callback(outs, ins [][]float32, frames uint32) {
	d.ProcessCycle(outs, ins, frames, d.engine.Frame())
}

// ProcessCycle renders one period starting at engine frame cycleStart. It
// never blocks: queued MIDI that cannot be spliced in this cycle is delivered
// in a later one.
func (d *Driver) ProcessCycle(outs, ins [][]float32, frames uint32, cycleStart uint64) {
	defer d.engine.RunPendingRTEvents()

	if outs == nil || !d.ready.Load() || frames != d.bufferFrames.Load() {
		return
	}

	for _, ch := range outs {
		clear(ch[:frames])
	}

	events := d.collectEvents(frames, cycleStart)

	if !d.graph.IsRack() {
		d.engine.Process(ins, outs, frames, events)
		return
	}

	d.graph.MixInputs(d.rackIns, ins, frames)
	clear(d.rackOuts[0][:frames])
	clear(d.rackOuts[1][:frames])
	d.engine.Process(d.rackIns[:], d.rackOuts[:], frames, events)
	d.graph.SpreadOutputs(outs, d.rackOuts, frames)
}

// collectEvents positions the queued MIDI inside the cycle window
// [cycleStart, cycleStart+frames).
func (d *Driver) collectEvents(frames uint32, cycleStart uint64) []contracts.EngineEvent {
	clear(d.events[:])
	d.queue.TrySplice()

	active := d.queue.Active()
	n := min(len(active), len(d.events))
	end := cycleStart + uint64(frames)

	for i := 0; i < n; i++ {
		ev := &active[i]

		var offset uint32
		switch {
		case ev.Time < cycleStart:
		case ev.Time >= end:
			offset = frames - 1
			d.log.Warn("MIDI event scheduled past the current cycle",
				d.log.Field().Uint64("time", ev.Time),
				d.log.Field().Uint64("cycle_start", cycleStart),
				d.log.Field().Uint32("frames", frames),
				d.log.Field().String("message", midi.Message(ev.Bytes()).String()),
			)
		default:
			offset = uint32(ev.Time - cycleStart)
		}

		out := &d.events[i]
		out.Time = offset
		out.FillFromMIDIData(ev.Bytes())
	}

	d.queue.Consume(n)
	return d.events[:n]
}

// ingest receives every message of every connected input port.
func (d *Driver) ingest(deltaSeconds float64, data []byte) {
	if !d.ready.Load() {
		return
	}
	if !d.queue.Ingest(d.engine.Frame(), d.bufferFrames.Load(), deltaSeconds, data) {
		d.log.Debug("MIDI message dropped", d.log.Field().Int("size", len(data)))
	}
}
