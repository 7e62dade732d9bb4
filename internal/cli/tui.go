package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elkscene/elkscene/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SceneBrowserModel - Interactive scene tree browsing
// =============================================================================

// sceneRow is one visible line in the browser: an element at a tree depth.
type sceneRow struct {
	el    *scene.Element
	depth int
}

// SceneBrowserModel is the bubbletea model for browsing a scene tree.
type SceneBrowserModel struct {
	Root   *scene.Element
	Cursor int
	Height int
	Offset int

	collapsed map[*scene.Element]bool
	rows      []sceneRow
}

// NewSceneBrowserModel creates a browser over the given scene tree.
func NewSceneBrowserModel(root *scene.Element) SceneBrowserModel {
	m := SceneBrowserModel{
		Root:      root,
		Height:    15,
		collapsed: map[*scene.Element]bool{},
	}
	m.rows = flattenScene(root, m.collapsed)
	return m
}

func (m SceneBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SceneBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			row := m.rows[m.Cursor]
			if len(row.el.Children) > 0 {
				m.collapsed[row.el] = !m.collapsed[row.el]
				m.rows = flattenScene(m.Root, m.collapsed)
				if m.Cursor >= len(m.rows) {
					m.Cursor = len(m.rows) - 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SceneBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scene Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := cursor + strings.Repeat("  ", row.depth) + sceneRowLabel(row.el, m.collapsed[row.el])
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case row.el.IsLabel():
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Cursor < len(m.rows) {
		b.WriteString(listDimStyle.Render("  " + sceneDetail(m.rows[m.Cursor].el)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// flattenScene turns the tree into visible rows, honoring collapsed elements.
func flattenScene(root *scene.Element, collapsed map[*scene.Element]bool) []sceneRow {
	var rows []sceneRow
	var walk func(el *scene.Element, depth int)
	walk = func(el *scene.Element, depth int) {
		rows = append(rows, sceneRow{el: el, depth: depth})
		if collapsed[el] {
			return
		}
		for _, child := range el.Children {
			walk(child, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return rows
}

// sceneRowLabel is the one-line list representation of an element.
func sceneRowLabel(el *scene.Element, collapsed bool) string {
	label := el.Type + " " + el.ID
	if el.IsLabel() && el.Text != "" {
		label = fmt.Sprintf("%s %q", el.Type, el.Text)
	}
	if el.IsEdge() {
		label = fmt.Sprintf("%s %s (%s %s %s)", el.Type, el.ID, el.SourceID, iconArrow, el.TargetID)
	}
	if collapsed {
		label += fmt.Sprintf(" [+%d]", len(el.Children))
	}
	return label
}

// sceneDetail is the expanded status line for the selected element.
func sceneDetail(el *scene.Element) string {
	parts := []string{el.Type, el.ID}
	if el.Position != nil {
		parts = append(parts, fmt.Sprintf("at (%.1f, %.1f)", el.Position.X, el.Position.Y))
	}
	if el.Size != nil {
		parts = append(parts, fmt.Sprintf("%.0fx%.0f", el.Size.Width, el.Size.Height))
	}
	if el.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", el.Text))
	}
	if el.IsEdge() {
		parts = append(parts, fmt.Sprintf("%s %s %s", el.SourceID, iconArrow, el.TargetID))
		parts = append(parts, fmt.Sprintf("%d routing points", len(el.RoutingPoints)))
	}
	if len(el.Children) > 0 {
		parts = append(parts, fmt.Sprintf("%d children", len(el.Children)))
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
