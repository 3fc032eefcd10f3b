// Package browse is a read-only terminal browser over saved postings,
// showing the classification provenance for each one.
package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entryladder/entryladder/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 0, 0, 2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 0, 0, 4)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(12)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

type browseModel struct {
	postings []model.Posting
	cursor   int
	view     viewState
	detail   viewport.Model
	width    int
	height   int
	ready    bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(msg.Width-4, msg.Height-6)
		m.ready = true
		if m.view == viewDetail {
			m.detail.SetContent(renderDetail(m.postings[m.cursor], m.width-4))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.view == viewDetail {
				m.view = viewList
				return m, nil
			}
			return m, tea.Quit
		case "esc":
			m.view = viewList
			return m, nil
		case "up", "k":
			if m.view == viewList && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.view == viewList && m.cursor < len(m.postings)-1 {
				m.cursor++
			}
		case "enter":
			if m.view == viewList && len(m.postings) > 0 && m.ready {
				m.view = viewDetail
				m.detail.SetContent(renderDetail(m.postings[m.cursor], m.width-4))
				m.detail.GotoTop()
			}
		}
	}

	if m.view == viewDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.view == viewDetail {
		return titleStyle.Render("Posting detail") + "\n" +
			m.detail.View() + "\n" +
			hintStyle.Render("↑/↓ scroll  esc back  q list")
	}

	s := titleStyle.Render("Entry-level postings")
	s += "\n"

	if len(m.postings) == 0 {
		s += itemStyle.Render("Nothing saved yet. Run `entryladder run` first.") + "\n"
	}

	for i, p := range m.postings {
		label := p.Title
		if i == m.cursor {
			s += selectedStyle.Render("> "+label) + "\n"
		} else {
			s += itemStyle.Render(label) + "\n"
		}
		s += subtitleStyle.Render(subtitle(p)) + "\n"
	}

	s += hintStyle.Render("↑/↓/j/k navigate  enter detail  q quit")
	return s
}

func subtitle(p model.Posting) string {
	parts := []string{p.Company, p.Location, p.Source}
	if p.PostedAt != nil {
		parts = append(parts, p.PostedAt.Format("2006-01-02"))
	}
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " · ")
}

func renderDetail(p model.Posting, width int) string {
	var b strings.Builder

	line := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	line("Title", p.Title)
	line("Company", p.Company)
	line("Location", p.Location)
	line("Source", p.Source)
	line("URL", p.URL)
	line("Posted", formatTime(p.PostedAt))
	line("Saved", formatTime(p.CreatedAt))

	if sc := p.Classification; sc != nil {
		b.WriteByte('\n')
		line("Language", string(sc.Language))
		line("Score", fmt.Sprintf("%d (keywords %d, experience %d)",
			sc.TotalScore, sc.KeywordScore, sc.ExperienceScore))
		if len(sc.PositiveKeywords) > 0 {
			line("Matched +", strings.Join(sc.PositiveKeywords, ", "))
		}
		if len(sc.NegativeKeywords) > 0 {
			line("Matched -", strings.Join(sc.NegativeKeywords, ", "))
		}
		for _, sig := range sc.Signals {
			line("Signal", fmt.Sprintf("%q %s %+d", sig.Phrase, sig.Type, sig.Weight))
		}
	}

	if p.Description != "" {
		b.WriteByte('\n')
		if width < 10 {
			width = 10
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", width)))
		b.WriteByte('\n')
		b.WriteString(p.Description)
		b.WriteByte('\n')
	}

	return b.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// Run shows the interactive browser over the given postings and blocks
// until the user quits.
func Run(postings []model.Posting) error {
	m := browseModel{postings: postings}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
