package midiport

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leandrodaf/rtdriver/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInput struct {
	name      string
	handler   InputHandler
	cancelled atomic.Bool
	closed    atomic.Bool
	closeErr  error
	onClose   func()
}

func (f *fakeInput) Cancel() { f.cancelled.Store(true) }

func (f *fakeInput) Close() error {
	if f.onClose != nil {
		f.onClose()
	}
	f.closed.Store(true)
	return f.closeErr
}

// fire simulates the native callback thread, which may still call in after
// cancellation.
func (f *fakeInput) fire(delta float64, data []byte) {
	f.handler(delta, data)
}

type fakeOutput struct {
	closed atomic.Bool
}

func (f *fakeOutput) Close() error {
	f.closed.Store(true)
	return nil
}

type fakeBackend struct {
	mu          sync.Mutex
	sources     []string
	sinks       []string
	openErr     error
	inputs      map[string]*fakeInput
	outputs     map[string]*fakeOutput
	clientNames []string
	closed      bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sources: []string{"Keystation", "Launchpad"},
		sinks:   []string{"Synth"},
		inputs:  map[string]*fakeInput{},
		outputs: map[string]*fakeOutput{},
	}
}

func (b *fakeBackend) Sources() ([]string, error) { return b.sources, nil }
func (b *fakeBackend) Sinks() ([]string, error)   { return b.sinks, nil }
func (b *fakeBackend) Close() error               { b.closed = true; return nil }

func (b *fakeBackend) OpenInput(portName, clientPortName string, h InputHandler) (Input, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !contains(b.sources, portName) {
		return nil, ErrPortNotFound
	}
	if b.openErr != nil {
		return nil, b.openErr
	}
	in := &fakeInput{name: portName, handler: h}
	b.inputs[portName] = in
	b.clientNames = append(b.clientNames, clientPortName)
	return in, nil
}

func (b *fakeBackend) OpenOutput(portName, clientPortName string) (Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !contains(b.sinks, portName) {
		return nil, ErrPortNotFound
	}
	if b.openErr != nil {
		return nil, b.openErr
	}
	out := &fakeOutput{}
	b.outputs[portName] = out
	b.clientNames = append(b.clientNames, clientPortName)
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type recorded struct {
	delta float64
	data  []byte
}

func newTestRegistry(t *testing.T, b Backend) (*Registry, *[]recorded, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	var got []recorded
	sink := func(delta float64, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, recorded{delta, append([]byte(nil), data...)})
	}
	return NewRegistry(b, "host", sink, logger.NewZapLoggerFrom(zap.NewNop())), &got, &mu
}

func TestConnectInputDeliversToSink(t *testing.T) {
	b := newFakeBackend()
	r, got, mu := newTestRegistry(t, b)

	require.NoError(t, r.ConnectInput("Keystation"))
	assert.Equal(t, []string{"Keystation"}, r.InputNames())
	assert.Equal(t, []string{"host:Keystation"}, b.clientNames)

	b.inputs["Keystation"].fire(0.01, []byte{0x90, 60, 100})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *got, 1)
	assert.Equal(t, 0.01, (*got)[0].delta)
	assert.Equal(t, []byte{0x90, 60, 100}, (*got)[0].data)
}

func TestConnectUnknownPort(t *testing.T) {
	r, _, _ := newTestRegistry(t, newFakeBackend())

	assert.ErrorIs(t, r.ConnectInput("Nope"), ErrPortNotFound)
	assert.ErrorIs(t, r.ConnectOutput("Nope"), ErrPortNotFound)
	assert.ErrorIs(t, r.ConnectInput(""), ErrEmptyPortName)
	assert.Empty(t, r.InputNames())
	assert.Empty(t, r.OutputNames())
}

func TestConnectOpenFailureKeepsNoState(t *testing.T) {
	b := newFakeBackend()
	b.openErr = errors.New("device busy")
	r, _, _ := newTestRegistry(t, b)

	assert.Error(t, r.ConnectInput("Keystation"))
	assert.Error(t, r.ConnectOutput("Synth"))
	assert.Empty(t, r.InputNames())
	assert.Empty(t, r.OutputNames())
}

func TestConnectTwiceIsRejected(t *testing.T) {
	r, _, _ := newTestRegistry(t, newFakeBackend())

	require.NoError(t, r.ConnectOutput("Synth"))
	assert.ErrorIs(t, r.ConnectOutput("Synth"), ErrPortAlreadyConnected)
	assert.Equal(t, []string{"Synth"}, r.OutputNames())
}

func TestConnectDisconnectRoundTrip(t *testing.T) {
	b := newFakeBackend()
	r, _, _ := newTestRegistry(t, b)
	require.NoError(t, r.ConnectInput("Launchpad"))
	before := r.InputNames()

	require.NoError(t, r.ConnectInput("Keystation"))
	require.NoError(t, r.DisconnectInput("Keystation"))

	assert.Equal(t, before, r.InputNames())
	assert.True(t, b.inputs["Keystation"].cancelled.Load())
	assert.True(t, b.inputs["Keystation"].closed.Load())
	assert.False(t, b.inputs["Launchpad"].closed.Load())

	assert.ErrorIs(t, r.DisconnectInput("Keystation"), ErrPortNotConnected)
	assert.ErrorIs(t, r.DisconnectOutput("Synth"), ErrPortNotConnected)
}

func TestNoCallbackAfterDisconnect(t *testing.T) {
	b := newFakeBackend()
	r, got, mu := newTestRegistry(t, b)
	require.NoError(t, r.ConnectInput("Keystation"))
	in := b.inputs["Keystation"]

	in.onClose = func() {
		assert.True(t, in.cancelled.Load(), "native callback must be cancelled before close")
	}
	require.NoError(t, r.DisconnectInput("Keystation"))

	in.fire(0, []byte{0x90, 60, 100})

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, *got)
}

func TestDisconnectWaitsForCallbackInFlight(t *testing.T) {
	b := newFakeBackend()
	entered := make(chan struct{})
	release := make(chan struct{})
	var sinkDone atomic.Bool

	r := NewRegistry(b, "host", func(float64, []byte) {
		close(entered)
		<-release
		sinkDone.Store(true)
	}, logger.NewZapLoggerFrom(zap.NewNop()))

	require.NoError(t, r.ConnectInput("Keystation"))
	in := b.inputs["Keystation"]
	in.onClose = func() {
		assert.True(t, sinkDone.Load(), "port closed while a callback was running")
	}

	go in.fire(0, []byte{0xF8})
	<-entered

	done := make(chan error)
	go func() { done <- r.DisconnectInput("Keystation") }()

	select {
	case <-done:
		t.Fatal("disconnect returned while callback in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	assert.True(t, in.closed.Load())
}

func TestCloseAllReleasesEverything(t *testing.T) {
	b := newFakeBackend()
	r, _, _ := newTestRegistry(t, b)
	require.NoError(t, r.ConnectInput("Keystation"))
	require.NoError(t, r.ConnectInput("Launchpad"))
	require.NoError(t, r.ConnectOutput("Synth"))

	b.inputs["Keystation"].closeErr = errors.New("first")
	b.inputs["Launchpad"].closeErr = errors.New("second")

	err := r.CloseAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")

	for _, in := range b.inputs {
		assert.True(t, in.cancelled.Load())
		assert.True(t, in.closed.Load())
	}
	assert.True(t, b.outputs["Synth"].closed.Load())
	assert.Empty(t, r.InputNames())
	assert.Empty(t, r.OutputNames())

	require.NoError(t, r.Close())
	assert.True(t, b.closed)
}

func TestLongNamesAreTruncated(t *testing.T) {
	long := strings.Repeat("x", MaxPortNameLength+10)
	b := newFakeBackend()
	b.sources = append(b.sources, long)
	r, _, _ := newTestRegistry(t, b)

	require.NoError(t, r.ConnectInput(long))
	names := r.InputNames()
	require.Len(t, names, 1)
	assert.Len(t, names[0], MaxPortNameLength)
	require.NoError(t, r.DisconnectInput(long))
}

func TestNoPortsBackend(t *testing.T) {
	r, _, _ := newTestRegistry(t, NoPorts{})
	assert.Empty(t, r.Sources())
	assert.Empty(t, r.Sinks())
	assert.ErrorIs(t, r.ConnectInput("any"), ErrPortNotFound)
}
