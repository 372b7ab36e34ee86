// Package client runs the frame loop of one editing connection: it reads
// input, drives the session and draws the canvas with its overlays.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/tomz197/polyfill/internal/config"
	"github.com/tomz197/polyfill/internal/draw"
	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/input"
	loopconfig "github.com/tomz197/polyfill/internal/loop/config"
	"github.com/tomz197/polyfill/internal/loop/server"
	"github.com/tomz197/polyfill/internal/session"
)

// Client handles rendering and input for a single connection.
type Client struct {
	registry     server.Registry
	handle       *server.ClientHandle
	session      *session.Session
	state        *ClientState
	theme        config.Theme
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	styles       styles
	logger       *log.Logger
	frame        []draw.Instruction // Reused between frames
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Theme        config.Theme
	EdgesVisible bool
	Profile      termenv.Profile
	Logger       *log.Logger
}

// NewClient creates a client with a fresh editing session and registers it
// with reg.
func NewClient(reg server.Registry, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sess := session.New(session.Options{
		FillColor:    opts.Theme.Fill,
		EdgeColor:    opts.Theme.Edge,
		EdgeWidth:    opts.Theme.EdgeWidth,
		EdgesVisible: opts.EdgesVisible,
		Logger:       logger,
	})

	canvas := draw.NewCanvas(0, 0, opts.Profile)
	canvas.SetBackground(opts.Theme.Background)

	return &Client{
		registry:     reg,
		handle:       reg.RegisterClient(opts.Username),
		session:      sess,
		state:        NewClientState(),
		theme:        opts.Theme,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		styles:       newStyles(w, opts.Profile, opts.Theme.Fill),
		logger:       logger,
	}
}

// Session returns the client's editing session.
func (c *Client) Session() *session.Session {
	return c.session
}

// Run starts the client loop. Blocks until the client quits, the input ends
// or the server shutdown countdown expires.
func (c *Client) Run() error {
	defer c.registry.UnregisterClient(c.handle.ID)

	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.updateScreen()
		c.processInput()
		c.processServerEvents()
		c.updateTimers()

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < loopconfig.ClientTargetFrameTime {
			time.Sleep(loopconfig.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput reads input and applies it to the session.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client", "id", c.handle.ID)
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityWarnUser {
		c.state.isInactive = true
	}

	for _, ev := range c.state.Input.Events {
		if !c.state.Running {
			return
		}
		c.handleEvent(ev)
	}

	if c.state.Input.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the registry.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.session.ClearSelection()
				c.state.Mode = ModeShutdown
				c.state.shutdownTimer = loopconfig.ShutdownDisplaySeconds
			case server.EventNotice:
				c.setMessage(event.Message)
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize. The bottom rows are kept for the
// status bar.
func (c *Client) updateScreen() {
	width, height, err := c.termSizeFunc()
	if err != nil {
		return
	}
	if width == c.state.termWidth && height == c.state.termHeight {
		return
	}
	c.state.termWidth = width
	c.state.termHeight = height
	c.state.needsClear = true
	c.canvas.Resize(width, max(height-loopconfig.StatusBarRows, 0))
}

// updateTimers advances the message and shutdown countdowns.
func (c *Client) updateTimers() {
	dt := c.state.delta.Seconds()
	if c.state.messageTimer > 0 {
		c.state.messageTimer -= dt
		if c.state.messageTimer <= 0 {
			c.state.message = ""
		}
	}
	if c.state.Mode == ModeShutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// setMessage shows msg in the status bar for a few seconds.
func (c *Client) setMessage(msg string) {
	c.state.message = msg
	c.state.messageTimer = loopconfig.StatusMessageSeconds
}

// report logs err and shows it in the status bar.
func (c *Client) report(err error) {
	c.logger.Error("edit failed", "id", c.handle.ID, "err", err)
	c.setMessage("error: " + err.Error())
}

// mouseToPixel converts a mouse press to canvas pixel coordinates. Presses
// on the status bar report false.
func (c *Client) mouseToPixel(ev input.Event) (geom.Point, bool) {
	if ev.Col < 1 || ev.Row < 1 || ev.Col > c.canvas.TerminalWidth() || ev.Row > c.canvas.TerminalHeight() {
		return geom.Point{}, false
	}
	return c.canvas.CellToPixel(ev.Col, ev.Row), true
}
