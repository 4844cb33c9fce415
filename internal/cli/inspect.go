package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// inspectCommand creates the inspect command: an interactive component
// browser, or a plain table with --plain.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [root|graph.json]",
		Short: "Browse the components of an architecture graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := rootArg(args)
			cfg, err := c.loadConfig(configRoot(arg))
			if err != nil {
				return err
			}
			g, err := c.loadGraph(cmd, arg, cfg)
			if err != nil {
				return err
			}
			if plain || len(g.Nodes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), componentTable(g))
				return nil
			}
			p := tea.NewProgram(NewComponentListModel(g), tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")
	return cmd
}

// =============================================================================
// ComponentListModel - Interactive component browser
// =============================================================================

// ComponentListModel is the bubbletea model for browsing components and
// their connections.
type ComponentListModel struct {
	Graph  arch.ArchitectureGraph
	Cursor int
	Height int
	Offset int

	out map[string][]arch.Connection
	in  map[string][]arch.Connection
}

// NewComponentListModel creates a browser over g.
func NewComponentListModel(g arch.ArchitectureGraph) ComponentListModel {
	m := ComponentListModel{
		Graph:  g,
		Height: 15,
		out:    make(map[string][]arch.Connection),
		in:     make(map[string][]arch.Connection),
	}
	for _, e := range g.Edges {
		m.out[e.From] = append(m.out[e.From], e)
		m.in[e.To] = append(m.in[e.To], e)
	}
	return m
}

// Selected returns the component under the cursor.
func (m ComponentListModel) Selected() (arch.Component, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Graph.Nodes) {
		return arch.Component{}, false
	}
	return m.Graph.Nodes[m.Cursor], true
}

func (m ComponentListModel) Init() tea.Cmd {
	return nil
}

func (m ComponentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Graph.Nodes)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m ComponentListModel) View() string {
	var b strings.Builder

	title := m.Graph.Metadata.ProjectName
	if title == "" {
		title = "Components"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]
		line := fmt.Sprintf("%-32s %s", n.ID, listDimStyle.Render(string(n.Type)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if n, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.detail(n))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	return b.String()
}

func (m ComponentListModel) detail(n arch.Component) string {
	var lines []string
	kv := func(k, v string) {
		if v != "" {
			lines = append(lines, detailKeyStyle.Render(k)+" "+StyleValue.Render(v))
		}
	}
	kv("name", n.Name)
	kv("type", string(n.Type))
	kv("provider", string(n.Provider))
	kv("service", n.Service)
	for _, k := range slices.Sorted(maps.Keys(n.Metadata)) {
		kv(k, fmt.Sprint(n.Metadata[k]))
	}
	for _, e := range m.out[n.ID] {
		kv(iconArrow, fmt.Sprintf("%s (%s)", e.To, e.Type))
	}
	for _, e := range m.in[n.ID] {
		kv("←", fmt.Sprintf("%s (%s)", e.From, e.Type))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// componentTable renders every component as a static table.
func componentTable(g arch.ArchitectureGraph) string {
	rows := make([][]string, len(g.Nodes))
	for i, n := range g.Nodes {
		rows[i] = []string{n.ID, string(n.Type), string(n.Provider), n.Service}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Type", "Provider", "Service").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
