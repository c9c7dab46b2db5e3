// Package patchbay mirrors the driver's hardware and the engine's rack
// endpoint as a graph of groups, ports and connections.
package patchbay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Fixed group ids.
const (
	GroupEngine   = 1
	GroupAudioIn  = 2
	GroupAudioOut = 3
	GroupMIDIIn   = 4
	GroupMIDIOut  = 5
)

// Ports of the engine group.
const (
	PortAudioIn1  = 1
	PortAudioIn2  = 2
	PortAudioOut1 = 3
	PortAudioOut2 = 4
	PortMIDIIn    = 5
	PortMIDIOut   = 6
)

// Errors returned by the graph.
var (
	ErrNotReady            = errors.New("patchbay not ready")
	ErrInvalidConnection   = errors.New("invalid patchbay connection")
	ErrAlreadyConnected    = errors.New("ports already connected")
	ErrConnectionNotFound  = errors.New("patchbay connection not found")
	ErrUnsupportedTopology = errors.New("operation not supported in patchbay mode")
)

// Connection links an output port (A) to an input port (B).
type Connection struct {
	ID     uint32
	GroupA int
	PortA  int
	GroupB int
	PortB  int
}

func (c Connection) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", c.GroupA, c.PortA, c.GroupB, c.PortB)
}

func (c Connection) sameEnds(o Connection) bool {
	return c.GroupA == o.GroupA && c.PortA == o.PortA && c.GroupB == o.GroupB && c.PortB == o.PortB
}

// Hardware is the driver side the graph mirrors and routes MIDI through.
type Hardware interface {
	Ready() bool
	Snapshot() contracts.HardwareSnapshot
	ConnectMIDIInput(portName string) error
	ConnectMIDIOutput(portName string) error
	DisconnectMIDIInput(portName string) error
	DisconnectMIDIOutput(portName string) error
}

// Graph is the patchbay of one driver instance.
type Graph struct {
	rack       bool
	reconciler contracts.PatchbayReconciler
	sink       contracts.NotificationSink

	// mu guards the connection list, the id counter and the MIDI port tables.
	mu       sync.Mutex
	lastID   uint32
	conns    []Connection
	midiIns  []string
	midiOuts []string

	routing routing
}

// New returns an empty graph. rack selects the fixed rack topology; otherwise
// refreshes are delegated to reconciler.
func New(rack bool, reconciler contracts.PatchbayReconciler, sink contracts.NotificationSink) *Graph {
	return &Graph{
		rack:       rack,
		reconciler: reconciler,
		sink:       sink,
	}
}

// IsRack reports whether the graph uses the rack topology.
func (g *Graph) IsRack() bool {
	return g.rack
}

// Connections returns a copy of the current connection list.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Connection(nil), g.conns...)
}

// LastID returns the most recently allocated connection id.
func (g *Graph) LastID() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastID
}

// Clear drops every connection and the audio routing. The id counter is kept.
func (g *Graph) Clear() {
	g.mu.Lock()
	g.conns = nil
	g.midiIns = nil
	g.midiOuts = nil
	g.mu.Unlock()

	g.routing.clear()
}

// nextID must be called with mu held.
func (g *Graph) nextID() uint32 {
	g.lastID++
	return g.lastID
}

func (g *Graph) emit(n contracts.Notification) {
	if g.sink != nil {
		g.sink.PatchbayCallback(n)
	}
}

func (g *Graph) emitGroup(group int, icon uint32, name string) {
	g.emit(contracts.Notification{Type: contracts.GroupAdded, GroupID: group, Hints: icon, Name: name})
}

func (g *Graph) emitPort(group, port int, hints uint32, name string) {
	g.emit(contracts.Notification{Type: contracts.PortAdded, GroupID: group, PortID: port, Hints: hints, Name: name})
}

func (g *Graph) emitConnection(t contracts.NotificationType, c Connection) {
	g.emit(contracts.Notification{Type: t, ConnectionID: c.ID, Name: c.String()})
}
