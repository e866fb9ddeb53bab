package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tangent/pkg/random"
	"github.com/matzehuels/tangent/pkg/render"
	"github.com/matzehuels/tangent/pkg/render/sink"
	"github.com/matzehuels/tangent/pkg/scene"
)

// Rows taken by the status line and the input box below the surface.
const (
	tuiStatusRows = 1
	tuiInputRows  = 3
)

var styleStatus = lipgloss.NewStyle().Foreground(colorGray)

// tuiCommand creates the interactive terminal command.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		paragraphPath string
		seed          uint64
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Type into a live eroding paragraph",
		Long: `Tui opens a full-screen view of the paragraph above a text box. Every
keystroke sets chaos from the length of what you have typed. Characters
that erode stay gone even after you delete your input.

Press Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParagraph(paragraphPath)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = random.NewSeed()
			}
			loggerFromContext(cmd.Context()).Debug("starting tui", "seed", seed)

			so := c.Config.SceneOptions()
			so.Layout = sink.TerminalLayout(so.Layout)
			s := scene.New(p, sink.CellMeasurer{}, scene.WithOptions(so), scene.WithSeed(seed))

			prog := tea.NewProgram(newTUIModel(s, c.Config.Palette), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&paragraphPath, "paragraph", "", "paragraph text file (default: built-in paragraph)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: random)")

	return cmd
}

// tuiModel drives a scene from a text box. The surface is redrawn on every
// resize and on every change of the input length.
type tuiModel struct {
	scene   *scene.Scene
	input   textarea.Model
	palette sink.Palette

	cols, rows int
	length     int
	frame      render.Frame
	surface    string
}

func newTUIModel(s *scene.Scene, p sink.Palette) tuiModel {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(tuiInputRows)
	ta.Focus()

	return tuiModel{scene: s, input: ta, palette: p}
}

func (m tuiModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-tuiInputRows-tuiStatusRows, 1)
		m.input.SetWidth(msg.Width)
		m.redraw(m.scene.HandleResize(sink.SurfaceSize(m.cols, m.rows)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if n := utf8.RuneCountInString(m.input.Value()); n != m.length {
		m.length = n
		m.redraw(m.scene.HandleInput(n))
	}
	return m, cmd
}

// redraw rasterizes f onto a grid of the current terminal size.
func (m *tuiModel) redraw(f render.Frame) {
	m.frame = f
	if m.cols <= 0 || m.rows <= 0 {
		return
	}
	g := sink.NewGrid(m.cols, m.rows)
	f.Draw(g)
	m.surface = g.Render(m.palette)
}

func (m tuiModel) status() string {
	st := m.scene.Chaos()
	return fmt.Sprintf("chaos %.2f · max %.2f · eroded %d/%d · length %d",
		st.Level, st.Max, m.frame.Stats.Eroded, m.frame.Stats.Characters, m.length)
}

func (m tuiModel) View() string {
	if m.cols == 0 {
		return "\n  Initializing..."
	}
	return m.surface + "\n" + styleStatus.Render(m.status()) + "\n" + m.input.View()
}
