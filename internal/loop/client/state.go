package client

import (
	"time"

	"github.com/tomz197/polyfill/internal/input"
)

// Mode is what the client's keys and clicks currently act on.
type Mode int

const (
	ModeCanvas   Mode = iota // Placing vertices and selecting polygons
	ModeMenu                 // Context menu for the selected polygon
	ModePalette              // Color picker for the selected polygon
	ModeShutdown             // Server is shutting down
)

func (m Mode) String() string {
	switch m {
	case ModeCanvas:
		return "DRAW"
	case ModeMenu:
		return "MENU"
	case ModePalette:
		return "COLOR"
	case ModeShutdown:
		return "BYE"
	default:
		return "?"
	}
}

// ClientState holds per-connection UI state. The editing state itself lives
// in the session.
type ClientState struct {
	Input         input.Input
	Mode          Mode
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	termWidth     int           // Full terminal size, status bar included
	termHeight    int
	needsClear    bool    // Clear the whole terminal before the next frame
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state
	message       string  // Status bar message
	messageTimer  float64 // Seconds the message stays visible
	menuCol       int     // Requested top-left cell of the menu or palette box
	menuRow       int
	box           boxRect // Where the last overlay box was drawn
}

// boxRect is the terminal area of a drawn overlay box, border included.
type boxRect struct {
	col, row      int
	width, height int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Mode:       ModeCanvas,
		Running:    true,
		needsClear: true,
	}
}
