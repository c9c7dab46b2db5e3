package coremidi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateRunsUntilClosed(t *testing.T) {
	var g gate
	calls := 0

	g.run(func() { calls++ })
	g.close()
	g.run(func() { calls++ })

	assert.Equal(t, 1, calls)
}

func TestGateCloseWaitsForCallback(t *testing.T) {
	var g gate
	entered := make(chan struct{})
	release := make(chan struct{})
	closed := make(chan struct{})

	go g.run(func() {
		close(entered)
		<-release
	})
	<-entered

	go func() {
		g.close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("close returned while a callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close did not return after the callback finished")
	}
}
