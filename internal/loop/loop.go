// Package loop runs the editor in a local terminal.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/tomz197/polyfill/internal/config"
	"github.com/tomz197/polyfill/internal/draw"
	"github.com/tomz197/polyfill/internal/loop/client"
	"github.com/tomz197/polyfill/internal/loop/server"
)

// Options configures a local run.
type Options struct {
	Settings     config.Settings
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc // Defaults to the size of os.Stdout
	Username     string
}

// Run starts a single editing session on r and w and blocks until the user
// quits. The session registers with a private registry, so the status bar
// and logs look the same as over SSH.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	theme, err := opts.Settings.Theme()
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	profile := opts.Settings.Profile(func() termenv.Profile {
		return termenv.NewOutput(os.Stdout).ColorProfile()
	})

	reg := server.NewServer(opts.Logger)
	c := client.NewClient(reg, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Theme:        theme,
		EdgesVisible: opts.Settings.EdgesVisible,
		Profile:      profile,
		Logger:       opts.Logger,
	})
	return c.Run()
}
