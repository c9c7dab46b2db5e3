package patchbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buffers(channels, frames int, fill ...float32) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
		if c < len(fill) {
			for i := range out[c] {
				out[c][i] = fill[c]
			}
		}
	}
	return out
}

func TestMixAndSpread(t *testing.T) {
	g := New(true, nil, &recordingSink{})
	hw := newHardware()
	require.NoError(t, g.Refresh(hw))

	for _, c := range [][4]int{
		{GroupAudioIn, 0, GroupEngine, PortAudioIn1},
		{GroupAudioIn, 1, GroupEngine, PortAudioIn1},
		{GroupAudioIn, 1, GroupEngine, PortAudioIn2},
		{GroupEngine, PortAudioOut1, GroupAudioOut, 1},
	} {
		_, err := g.Connect(hw, c[0], c[1], c[2], c[3])
		require.NoError(t, err)
	}

	ins := buffers(2, 4, 0.25, 0.5)
	engIns := [2][]float32{{9, 9, 9, 9}, {9, 9, 9, 9}}
	require.True(t, g.MixInputs(engIns, ins, 4))
	assert.Equal(t, []float32{0.75, 0.75, 0.75, 0.75}, engIns[0])
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, engIns[1])

	outs := buffers(2, 4)
	engOuts := [2][]float32{{1, 1, 1, 1}, {2, 2, 2, 2}}
	require.True(t, g.SpreadOutputs(outs, engOuts, 4))
	assert.Equal(t, []float32{0, 0, 0, 0}, outs[0])
	assert.Equal(t, []float32{1, 1, 1, 1}, outs[1])
}

func TestMixWhileEditingIsSilent(t *testing.T) {
	g := New(true, nil, &recordingSink{})
	hw := newHardware()
	require.NoError(t, g.Refresh(hw))
	_, err := g.Connect(hw, GroupAudioIn, 0, GroupEngine, PortAudioIn1)
	require.NoError(t, err)

	g.routing.mu.Lock()
	engIns := [2][]float32{{9, 9}, {9, 9}}
	assert.False(t, g.MixInputs(engIns, buffers(2, 2, 1, 1), 2))
	assert.False(t, g.SpreadOutputs(buffers(2, 2), engIns, 2))
	g.routing.mu.Unlock()

	assert.Equal(t, []float32{0, 0}, engIns[0])
	assert.True(t, g.MixInputs(engIns, buffers(2, 2, 1, 1), 2))
	assert.Equal(t, []float32{1, 1}, engIns[0])
}
