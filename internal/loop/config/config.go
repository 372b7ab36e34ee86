// Package config centralizes the tunable parameters of the frame loop.
package config

import "time"

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 600 // Seconds
	InactivityDisconnectUser = 900 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Layout
const (
	StatusBarRows     = 1  // Terminal rows reserved below the canvas
	MinTerminalWidth  = 20 // Below this the client shows a resize hint
	MinTerminalHeight = 4
	MaxUsernameLength = 16 // Maximum display length for usernames
)

// Messages
const (
	StatusMessageSeconds = 4.0 // How long a status-bar message stays visible
	DraftMarkerSize      = 1   // Half-width of the square marker drawn on draft vertices
)
