package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/cli/formatter"
	"github.com/alexanderramin/mlfs/internal/form"
)

// recordLoadedMsg signals that the record behind a view has been loaded.
type recordLoadedMsg struct {
	sess     *form.Session
	sections []form.Section
	err      error
}

type recordLoader func() (*form.Session, []form.Section, error)

type recordKeys struct {
	Next key.Binding
	Prev key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func (k recordKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Quit}
}

func (k recordKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Up, k.Down, k.Quit}}
}

func defaultRecordKeys() recordKeys {
	return recordKeys{
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next section")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous section")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "scroll down")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// recordView shows one record with a tab per visible section.
type recordView struct {
	title string
	load  recordLoader

	sess     *form.Session
	sections []form.Section
	active   int
	loading  bool
	err      error

	keys     recordKeys
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
}

func newRecordView(title string, load recordLoader) *recordView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleHeader
	return &recordView{
		title:    title,
		load:     load,
		loading:  true,
		keys:     defaultRecordKeys(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

func (v *recordView) Init() tea.Cmd {
	load := v.load
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		sess, sections, err := load()
		return recordLoadedMsg{sess: sess, sections: sections, err: err}
	})
}

func (v *recordView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		v.loading = false
		v.sess, v.sections, v.err = msg.sess, msg.sections, msg.err
		v.refresh()
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		// heading, tab bar and help line
		v.viewport.Width = msg.Width
		v.viewport.Height = max(msg.Height-5, 1)
		v.help.Width = msg.Width
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Next):
			v.move(1)
			return v, nil
		case key.Matches(msg, v.keys.Prev):
			v.move(-1)
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *recordView) move(delta int) {
	n := len(v.sections)
	if n == 0 {
		return
	}
	v.active = (v.active + delta + n) % n
	v.refresh()
}

func (v *recordView) refresh() {
	if v.sess == nil || len(v.sections) == 0 {
		return
	}
	content := formatter.FormatSection(v.sess, v.sections[v.active])
	if w := formatter.FormatWarnings(v.sess.Warnings()); w != "" {
		content += "\n" + w
	}
	v.viewport.SetContent(content)
	v.viewport.GotoTop()
}

// Section returns the title of the section on screen.
func (v *recordView) Section() string {
	if len(v.sections) == 0 {
		return ""
	}
	return v.sections[v.active].Title
}

func (v *recordView) tabs() string {
	parts := make([]string, len(v.sections))
	for i, s := range v.sections {
		if i == v.active {
			parts[i] = formatter.StyleHeader.Render("[" + s.Title + "]")
			continue
		}
		parts[i] = formatter.Dim(" " + s.Title + " ")
	}
	return strings.Join(parts, " ")
}

func (v *recordView) View() string {
	if v.loading {
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Loading "+v.title+"...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n"
	}
	if len(v.sections) == 0 {
		return "\n  " + formatter.Dim("Nothing to show for this account.") + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.RecordHeading(v.sess.Record()) + "\n")
	b.WriteString(v.tabs() + "\n\n")
	b.WriteString(v.viewport.View() + "\n")
	b.WriteString(v.help.View(v.keys))
	return b.String()
}

func runRecordView(cmd *cobra.Command, app *App, spec kindSpec, t target) error {
	ctx := cmd.Context()
	title := spec.noun()
	if t.id != nil {
		title += " " + formatter.RecordID(t.id)
	}
	view := newRecordView(title, func() (*form.Session, []form.Section, error) {
		return loadForView(ctx, app, spec, t)
	})
	p := tea.NewProgram(view,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if v, ok := final.(*recordView); ok && v.err != nil {
		return v.err
	}
	return nil
}

func loadForView(ctx context.Context, app *App, spec kindSpec, t target) (*form.Session, []form.Section, error) {
	e, err := app.openEditor(ctx, spec.kind, t)
	if err != nil {
		return nil, nil, err
	}
	if err := e.loadSubstances(ctx); err != nil {
		return nil, nil, err
	}
	return e.sess, e.sections(), nil
}
