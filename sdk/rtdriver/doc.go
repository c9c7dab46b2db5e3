// Package rtdriver creates real-time audio/MIDI drivers for a plugin-hosting
// engine.
package rtdriver
