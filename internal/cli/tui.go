package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// SectionListModel - Interactive section browser
// =============================================================================

// SectionListModel is the bubbletea model for browsing sections.
// Enter opens the selected section's details; any key returns to the list.
type SectionListModel struct {
	Sections  []section.Section
	Distances []float64
	Cursor    int
	Height    int
	Offset    int
	Detail    bool
}

// NewSectionListModel creates a new section list model.
func NewSectionListModel(sections []section.Section) SectionListModel {
	return SectionListModel{
		Sections:  sections,
		Distances: reach.Distances(sections),
		Height:    15,
	}
}

func (m SectionListModel) Init() tea.Cmd {
	return nil
}

func (m SectionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				return m, tea.Quit
			}
			m.Detail = false
			return m, nil
		}
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
			if m.Cursor < len(m.Sections)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Sections) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m SectionListModel) View() string {
	var b strings.Builder

	if m.Detail {
		showSection(&b, m.Cursor, m.Sections[m.Cursor], m.Distances[m.Cursor])
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("any key: back  q: quit"))
		return b.String()
	}

	b.WriteString(StyleTitle.Render("Sections"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Sections) == 0 {
		b.WriteString(listDimStyle.Render("  no sections"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Sections))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Sections[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		emp, stab, _ := estimateCells(s)
		in := s.Inputs()
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i + 1),
			in.Name,
			reach.FormatGeometry(m.Distances[i]),
			string(in.RevetmentType),
			string(in.Zone),
			emp,
			stab,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Name", "Distance", "Type", "Zone", "E&M D50", "Pilarczyk D50").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 1 || col == 3 || col >= 6 {
				base = base.Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sections))))

	return b.String()
}

// browseCommand opens the interactive section browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse sections interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := c.loadSequence(cmd.Context())
			if err != nil {
				return err
			}
			p := tea.NewProgram(
				NewSectionListModel(seq.Sections()),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
}
