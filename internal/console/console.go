// Package console is the operator's terminal front end for the lobby server:
// a scrolling log pane fed by the server's logger, a status line, and keys to
// start and stop the server.
package console

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jroimartin/gocui"
)

// Controller is the lifecycle surface the console drives.
type Controller interface {
	Start(port string) error
	Stop()
	Running() bool
	Addr() string
	SessionCount() int
	RoomCount() int
}

const (
	logView    = "log"
	statusView = "status"
	helpLine   = "s: start | x: stop | Ctrl-C: quit"
)

// Console owns the terminal UI.
type Console struct {
	gui   *gocui.Gui
	port  string
	lines *lineBuffer
	ctrl  Controller
	done  chan struct{}
}

// New initializes the terminal. The caller must Close the console.
func New(port string) (*Console, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	c := &Console{
		gui:   g,
		port:  port,
		lines: &lineBuffer{},
		done:  make(chan struct{}),
	}
	c.lines.notify = c.scheduleFlush
	g.SetManagerFunc(c.layout)
	return c, nil
}

// Writer returns the sink for log output. Writes never block on the UI.
func (c *Console) Writer() io.Writer {
	return c.lines
}

// Logger returns a logger that prints into the log pane.
func (c *Console) Logger() *log.Logger {
	return log.New(c.lines, "", log.LstdFlags)
}

// Run attaches ctrl, optionally starts it, and blocks in the UI loop until
// the operator quits. The server is stopped before Run returns.
func (c *Console) Run(ctrl Controller, autoStart bool) error {
	c.ctrl = ctrl
	if err := c.keybindings(); err != nil {
		return err
	}

	if autoStart {
		go c.start()
	}
	go c.refreshLoop()

	err := c.gui.MainLoop()
	close(c.done)
	ctrl.Stop()

	if err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close restores the terminal.
func (c *Console) Close() {
	c.gui.Close()
}

func (c *Console) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	statusTop := maxY - 4

	if v, err := g.SetView(logView, 0, 0, maxX-1, statusTop-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Server log"
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(statusView, 0, statusTop, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		c.renderStatus(v)
	}

	return nil
}

func (c *Console) keybindings() error {
	if err := c.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(_ *gocui.Gui, _ *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}

	if err := c.gui.SetKeybinding("", 's', gocui.ModNone,
		func(_ *gocui.Gui, _ *gocui.View) error {
			go c.start()
			return nil
		}); err != nil {
		return err
	}

	return c.gui.SetKeybinding("", 'x', gocui.ModNone,
		func(_ *gocui.Gui, _ *gocui.View) error {
			go c.stop()
			return nil
		})
}

// start and stop run off the UI goroutine; Stop waits for every session.
func (c *Console) start() {
	if err := c.ctrl.Start(c.port); err != nil {
		fmt.Fprintf(c.lines, "Server start failed: %v\n", err)
	}
	c.scheduleStatus()
}

func (c *Console) stop() {
	c.ctrl.Stop()
	c.scheduleStatus()
}

func (c *Console) refreshLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.scheduleStatus()
		}
	}
}

func (c *Console) scheduleStatus() {
	c.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(statusView)
		if err != nil {
			return nil
		}
		c.renderStatus(v)
		return nil
	})
}

func (c *Console) renderStatus(v *gocui.View) {
	v.Clear()
	if c.ctrl == nil {
		fmt.Fprintf(v, "starting... | %s", helpLine)
		return
	}
	fmt.Fprintln(v, statusLine(c.ctrl))
	fmt.Fprint(v, helpLine)
}

// scheduleFlush moves buffered log lines into the log pane. Each flush
// drains everything pending, so lines keep their order even though gocui
// runs updates in no particular order.
func (c *Console) scheduleFlush() {
	c.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(logView)
		if err != nil {
			return nil
		}
		_, err = v.Write(c.lines.drain())
		return err
	})
}

func statusLine(ctrl Controller) string {
	if !ctrl.Running() {
		return "STOPPED"
	}
	return fmt.Sprintf("RUNNING on %s | sessions: %d | rooms: %d",
		ctrl.Addr(), ctrl.SessionCount(), ctrl.RoomCount())
}
