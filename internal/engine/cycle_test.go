package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/rtdriver/internal/patchbay"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

func channels(n int, frames uint32, fill float32) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, frames)
		for j := range out[i] {
			out[i][j] = fill
		}
	}
	return out
}

func openWithKeys(t *testing.T, mode contracts.ProcessMode) (*harness, *fakeInput) {
	t.Helper()
	h := newHarness(t, mode)
	h.sys.stream.frames = 100
	require.NoError(t, h.drv.Open("studio"))
	require.NoError(t, h.drv.ConnectMIDIInput("Keys"))
	return h, h.midi.inputs["Keys"]
}

func TestProcessCycleOffsets(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)
	outs := channels(2, 100, 0)

	// 0.1s raw delay is 5% of the period: frame 1005.
	h.engine.setFrame(1000)
	keys.handler(0.1, []byte{0x91, 60, 100})

	h.drv.ProcessCycle(outs, nil, 100, 1000)
	require.Len(t, h.engine.events, 1)
	ev := h.engine.events[0]
	assert.Equal(t, contracts.MIDIEvent, ev.Type)
	assert.Equal(t, uint32(5), ev.Time)
	assert.Equal(t, uint8(1), ev.Channel)
	assert.Equal(t, uint8(3), ev.Size)
	assert.Equal(t, [4]byte{0x91, 60, 100, 0}, ev.Data)

	// Late event lands on the first frame.
	keys.handler(0, []byte{0x80, 60, 0})
	h.drv.ProcessCycle(outs, nil, 100, 1100)
	require.Len(t, h.engine.events, 1)
	assert.Equal(t, uint32(0), h.engine.events[0].Time)

	assert.Zero(t, h.drv.queue.Len())
}

func TestProcessCycleFutureEventClampsAndWarns(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)

	h.engine.setFrame(5000)
	keys.handler(0, []byte{0xF8})

	h.drv.ProcessCycle(channels(2, 100, 0), nil, 100, 1000)
	require.Len(t, h.engine.events, 1)
	assert.Equal(t, uint32(99), h.engine.events[0].Time)
	assert.Equal(t, uint8(0), h.engine.events[0].Channel)
	assert.Equal(t, 1, h.logs.FilterMessage("MIDI event scheduled past the current cycle").Len())
}

func TestProcessCycleMonotonicTimes(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)

	h.engine.setFrame(1000)
	keys.handler(1.0, []byte{0x90, 60, 1}) // 1000 + 0.5*100
	keys.handler(0, []byte{0x90, 61, 1})   // raised to 1050

	h.drv.ProcessCycle(channels(2, 100, 0), nil, 100, 1000)
	require.Len(t, h.engine.events, 2)
	assert.Equal(t, uint32(50), h.engine.events[0].Time)
	assert.Equal(t, uint32(50), h.engine.events[1].Time)
}

func TestProcessCycleFrameMismatch(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)
	keys.handler(0, []byte{0x90, 60, 1})

	outs := channels(2, 64, 1)
	h.drv.ProcessCycle(outs, nil, 64, 0)

	assert.Zero(t, h.engine.processed)
	assert.Equal(t, 1, h.engine.deferred)
	assert.Equal(t, float32(1), outs[0][0])
	assert.Equal(t, 1, h.drv.queue.Len())

	h.drv.ProcessCycle(nil, nil, 100, 0)
	assert.Zero(t, h.engine.processed)
	assert.Equal(t, 2, h.engine.deferred)
}

func TestProcessCycleNotReady(t *testing.T) {
	h := newHarness(t, contracts.ProcessModePatchbay)
	h.drv.ProcessCycle(channels(2, 512, 0), nil, 512, 0)
	assert.Zero(t, h.engine.processed)
	assert.Equal(t, 1, h.engine.deferred)
}

func TestProcessCycleZeroesOutputs(t *testing.T) {
	h, _ := openWithKeys(t, contracts.ProcessModePatchbay)

	outs := channels(2, 100, 0.5)
	h.drv.ProcessCycle(outs, channels(2, 100, 0.25), 100, 0)

	assert.Equal(t, 1, h.engine.processed)
	assert.Equal(t, 1, h.engine.deferred)
	for _, ch := range outs {
		assert.Equal(t, make([]float32, 100), ch)
	}
	assert.Empty(t, h.engine.events)
}

func TestIngestIgnoredWhileClosed(t *testing.T) {
	h := newHarness(t, contracts.ProcessModePatchbay)
	h.drv.ingest(0, []byte{0x90, 60, 1})
	assert.Zero(t, h.drv.queue.Len())
}

func TestIngestDropsOversized(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)

	keys.handler(0, nil)
	keys.handler(0, []byte{0xF0, 1, 2, 3, 0xF7})
	assert.Zero(t, h.drv.queue.Len())
	assert.Equal(t, 2, h.logs.FilterMessage("MIDI message dropped").Len())
}

func TestRackCycleRoutesThroughConnections(t *testing.T) {
	h, _ := openWithKeys(t, contracts.ProcessModeRack)

	_, err := h.drv.PatchbayConnect(patchbay.GroupAudioIn, 1, patchbay.GroupEngine, patchbay.PortAudioIn1)
	require.NoError(t, err)
	_, err = h.drv.PatchbayConnect(patchbay.GroupEngine, patchbay.PortAudioOut1, patchbay.GroupAudioOut, 0)
	require.NoError(t, err)

	h.engine.render = func(ins, outs [][]float32, frames uint32) {
		require.Len(t, ins, 2)
		require.Len(t, outs, 2)
		for i := uint32(0); i < frames; i++ {
			outs[0][i] = ins[0][i] * 2
			outs[1][i] = 1
		}
	}

	ins := channels(2, 100, 0)
	for i := range ins[1] {
		ins[1][i] = 0.25
	}
	outs := channels(2, 100, 9)

	h.drv.ProcessCycle(outs, ins, 100, 0)

	assert.Equal(t, float32(0.5), outs[0][0])
	assert.Equal(t, float32(0.5), outs[0][99])
	assert.Equal(t, make([]float32, 100), outs[1])
}

func TestStreamCallbackUsesEngineFrame(t *testing.T) {
	h, keys := openWithKeys(t, contracts.ProcessModePatchbay)

	h.engine.setFrame(300)
	keys.handler(0.2, []byte{0x90, 1, 1}) // 300 + 10
	h.sys.cb(channels(2, 100, 0), nil, 100)

	require.Len(t, h.engine.events, 1)
	assert.Equal(t, uint32(10), h.engine.events[0].Time)
}
