// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and every returned Cmd is run inline until the
// model goes quiet. Cmds that wait on timers (spinner ticks, cursor blink)
// do not return within a few milliseconds and are dropped, which keeps the
// drain deterministic.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many Cmd generations one Send may produce.
const MaxDrainDepth = 100

// cmdTimeout separates message factories from timer-driven Cmds.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a model and keeps the latest copy.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool
	// Seen holds the type name of every message fed to the model.
	Seen []string
}

// Option configures a Driver at construction.
type Option func(*Driver)

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Send(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send feeds msg through Update and drains the result.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.update(msg, 0)
}

func (d *Driver) key(k tea.KeyMsg) {
	d.T.Helper()
	d.Send(k)
}

func (d *Driver) PressKey(r rune) {
	d.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter()    { d.key(tea.KeyMsg{Type: tea.KeyEnter}) }
func (d *Driver) PressEsc()      { d.key(tea.KeyMsg{Type: tea.KeyEsc}) }
func (d *Driver) PressCtrlC()    { d.key(tea.KeyMsg{Type: tea.KeyCtrlC}) }
func (d *Driver) PressUp()       { d.key(tea.KeyMsg{Type: tea.KeyUp}) }
func (d *Driver) PressDown()     { d.key(tea.KeyMsg{Type: tea.KeyDown}) }
func (d *Driver) PressLeft()     { d.key(tea.KeyMsg{Type: tea.KeyLeft}) }
func (d *Driver) PressRight()    { d.key(tea.KeyMsg{Type: tea.KeyRight}) }
func (d *Driver) PressTab()      { d.key(tea.KeyMsg{Type: tea.KeyTab}) }
func (d *Driver) PressShiftTab() { d.key(tea.KeyMsg{Type: tea.KeyShiftTab}) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Saw reports whether a message of the named type reached the model.
func (d *Driver) Saw(typeName string) bool {
	for _, s := range d.Seen {
		if strings.HasSuffix(s, typeName) {
			return true
		}
	}
	return false
}

func (d *Driver) update(msg tea.Msg, depth int) {
	d.Seen = append(d.Seen, fmt.Sprintf("%T", msg))
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, depth+1)
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runCmd(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(m)
		d.Model = updated
	default:
		if isBlink(msg) {
			return
		}
		d.update(msg, depth)
	}
}

// runCmd returns nil for Cmds that do not finish within cmdTimeout.
func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
