// Package browse is an interactive terminal browser for decoded modules.
//
// The left pane lists sections in encounter order; the right pane shows the
// selected section as text and scrolls independently.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-decode/inspect"
	"github.com/wippyai/wasm-decode/wasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	listWidth     = 24
	chromeHeight  = 4 // title, blank line, blank line, help
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the bubbletea model of the browser.
type Model struct {
	module   *wasm.Module
	detail   viewport.Model
	filename string
	selected int
}

// New creates a browser for m. filename is only shown in the title.
func New(filename string, m *wasm.Module) *Model {
	b := &Model{
		module:   m,
		filename: filename,
		detail:   viewport.New(defaultWidth-listWidth, defaultHeight-chromeHeight),
	}
	b.refresh()
	return b
}

// Selected returns the index of the selected section.
func (b *Model) Selected() int {
	return b.selected
}

func (b *Model) Init() tea.Cmd {
	return nil
}

func (b *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return b, tea.Quit

		case "up", "k":
			if b.selected > 0 {
				b.selected--
				b.refresh()
			}
			return b, nil

		case "down", "j":
			if b.selected < len(b.module.Sections)-1 {
				b.selected++
				b.refresh()
			}
			return b, nil

		case "home", "g":
			b.selected = 0
			b.refresh()
			return b, nil
		}

	case tea.WindowSizeMsg:
		b.detail.Width = max(msg.Width-listWidth-2, 10)
		b.detail.Height = max(msg.Height-chromeHeight, 1)
	}

	// remaining keys (pgup, pgdown, mouse) scroll the detail pane
	var cmd tea.Cmd
	b.detail, cmd = b.detail.Update(msg)
	return b, cmd
}

func (b *Model) refresh() {
	if len(b.module.Sections) == 0 {
		b.detail.SetContent("module has no sections")
		return
	}
	b.detail.SetContent(inspect.SectionText(b.module.Sections[b.selected]))
	b.detail.GotoTop()
}

func (b *Model) View() string {
	var list strings.Builder
	for i, s := range b.module.Sections {
		line := fmt.Sprintf("%2d %-9s (%d)", i, s.ID(), inspect.Entries(s))
		if i == b.selected {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + sectionStyle.Render(line))
		}
		list.WriteString("\n")
	}

	var v strings.Builder
	v.WriteString(titleStyle.Render("WASM Decode"))
	v.WriteString(" ")
	v.WriteString(b.filename)
	v.WriteString("\n\n")
	v.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		detailStyle.Render(b.detail.View()),
	))
	v.WriteString("\n\n")
	v.WriteString(helpStyle.Render("↑/↓ select • pgup/pgdn scroll • q quit"))
	return v.String()
}

// Run shows the browser on the terminal until the user quits.
func Run(filename string, m *wasm.Module) error {
	p := tea.NewProgram(New(filename, m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
