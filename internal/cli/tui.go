package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zwavetools/zwconf/pkg/resolver"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// minQueryLen is the shortest manufacturer name search accepted. Hex ID
// queries ("0x...") bypass the limit since they match exactly.
const minQueryLen = 3

// =============================================================================
// ManufacturerSearchModel - Incremental manufacturer search
// =============================================================================

// ManufacturerSearchModel is the bubbletea model for finding a
// manufacturer by name fragment or hex ID. Matches update as the user
// types; enter picks the highlighted match. A query that narrows down
// to a single manufacturer selects it immediately.
type ManufacturerSearchModel struct {
	input    textinput.Model
	search   func(query string) ([]resolver.Manufacturer, error)
	matches  []resolver.Manufacturer
	cursor   int
	err      error
	Selected *resolver.Manufacturer
}

// NewManufacturerSearchModel creates a search model backed by the given
// search function.
func NewManufacturerSearchModel(search func(string) ([]resolver.Manufacturer, error)) ManufacturerSearchModel {
	ti := textinput.New()
	ti.Placeholder = "manufacturer name or 0x id"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	return ManufacturerSearchModel{input: ti, search: search}
}

func (m ManufacturerSearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ManufacturerSearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.matches) > 0 {
				m.Selected = &m.matches[m.cursor]
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	// An exact hit needs no further keystrokes.
	if len(m.matches) == 1 && queryComplete(m.input.Value()) {
		m.Selected = &m.matches[0]
		return m, tea.Quit
	}
	return m, cmd
}

// refresh recomputes matches for the current query.
func (m *ManufacturerSearchModel) refresh() {
	query := strings.TrimSpace(m.input.Value())
	if !queryComplete(query) {
		m.matches = nil
		m.cursor = 0
		return
	}
	matches, err := m.search(query)
	if err != nil {
		m.err = err
		m.matches = nil
		m.cursor = 0
		return
	}
	m.err = nil
	m.matches = matches
	if m.cursor >= len(matches) {
		m.cursor = 0
	}
}

// queryComplete reports whether the query is specific enough to search:
// either a hex ID or at least minQueryLen characters of a name.
func queryComplete(query string) bool {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToLower(query), "0x") {
		return len(query) > 2
	}
	return len(query) >= minQueryLen
}

func (m ManufacturerSearchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Manufacturer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to search  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(fmt.Sprintf("search failed: %v", m.err)))
	case !queryComplete(m.input.Value()):
		b.WriteString(listDimStyle.Render(fmt.Sprintf("enter at least %d characters", minQueryLen)))
	case len(m.matches) == 0:
		b.WriteString(listDimStyle.Render("no matches"))
	default:
		for i, mfr := range m.matches {
			cursor := "  "
			if i == m.cursor {
				cursor = "▸ "
			}
			line := fmt.Sprintf("%s%-8s %s", cursor, mfr.ID, mfr.Name)
			if i == m.cursor {
				b.WriteString(listSelectedStyle.Render(line))
			} else {
				b.WriteString(listNormalStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// DeviceListModel - Device file selection
// =============================================================================

// DeviceListModel is the bubbletea model for picking a device file from
// a manufacturer's directory.
type DeviceListModel struct {
	Manufacturer resolver.Manufacturer
	Devices      []string
	Cursor       int
	Selected     string
}

// NewDeviceListModel creates a device list for one manufacturer.
func NewDeviceListModel(mfr resolver.Manufacturer, devices []string) DeviceListModel {
	return DeviceListModel{Manufacturer: mfr, Devices: devices}
}

func (m DeviceListModel) Init() tea.Cmd {
	return nil
}

func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Devices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Devices[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DeviceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Select Device (%s %s)", m.Manufacturer.ID, m.Manufacturer.Name)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Devices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + name
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Devices))))

	return b.String()
}
