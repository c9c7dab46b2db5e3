package contracts

import "fmt"

// NotificationType identifies a patchbay change reported to the engine.
type NotificationType int

const (
	// GroupAdded reports a new patchbay group (client).
	GroupAdded NotificationType = iota + 1
	// GroupRemoved reports a patchbay group going away.
	GroupRemoved
	// PortAdded reports a new port on a group.
	PortAdded
	// PortRemoved reports a port going away.
	PortRemoved
	// ConnectionAdded reports a new connection between two ports.
	ConnectionAdded
	// ConnectionRemoved reports a connection going away.
	ConnectionRemoved
)

func (t NotificationType) String() string {
	switch t {
	case GroupAdded:
		return "group-added"
	case GroupRemoved:
		return "group-removed"
	case PortAdded:
		return "port-added"
	case PortRemoved:
		return "port-removed"
	case ConnectionAdded:
		return "connection-added"
	case ConnectionRemoved:
		return "connection-removed"
	}
	return fmt.Sprintf("notification(%d)", int(t))
}

// Port hint bits carried by PortAdded notifications.
const (
	PortTypeAudio uint32 = 0x1
	PortTypeMIDI  uint32 = 0x4
	PortIsInput   uint32 = 0x10
)

// Group icons carried by GroupAdded notifications.
const (
	IconApplication uint32 = 0
	IconEngine      uint32 = 1
	IconHardware    uint32 = 2
)

// Notification describes a single patchbay change.
//
// For groups, GroupID and Hints (icon) are set; for ports, GroupID, PortID and
// Hints (port type bits); for connections, ConnectionID with Name formatted as
// "groupA:portA:groupB:portB".
type Notification struct {
	Type         NotificationType
	GroupID      int
	PortID       int
	ConnectionID uint32
	Hints        uint32
	Name         string
}
