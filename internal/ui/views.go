package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the header, active view and command bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	cmdBar := m.renderCommandBar()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(cmdBar), 0)

	var body string
	switch m.currentView {
	case ViewSearch:
		body = m.renderSearch()
	case ViewAbout:
		body = m.renderAbout()
	default:
		body = m.renderIndex()
	}

	body = lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, cmdBar)
}

// renderIndex renders the landing view.
func (m Model) renderIndex() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render(logo()))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Search a newznab indexer from the terminal."))
	b.WriteString("\n\n")

	switch {
	case m.snapshot.CategoriesError != nil:
		b.WriteString(styles.DangerText.Render("Categories unavailable: " + m.snapshot.CategoriesError.Error()))
	case len(m.snapshot.Categories) == 0:
		b.WriteString(styles.MutedText.Render("Loading categories..."))
	default:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d categories available on %s",
			len(m.snapshot.Categories), m.about.Host)))
	}
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Width(4)
	for _, h := range [][2]string{{"s", "Search"}, {"a", "About"}, {"?", "Help"}, {"q", "Quit"}} {
		b.WriteString(keyStyle.Render(h[0]))
		b.WriteString(styles.Text.Render(h[1]))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderAbout renders the configuration summary.
func (m Model) renderAbout() string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText.Width(14)
	valueWidth := max(m.width-20, 20)

	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return truncateMiddle(s, valueWidth)
	}

	rows := [][2]string{
		{"Indexer", orDash(m.about.Host)},
		{"Config", orDash(m.about.ConfigPath)},
		{"Preferences", orDash(m.about.PrefsPath)},
		{"Log file", orDash(m.about.LogFile)},
		{"Result limit", fmt.Sprintf("%d", m.about.ResultLimit)},
		{"Theme", m.theme.Name},
		{"Version", orDash(m.about.Version)},
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("About nabsearch"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(styles.Text.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(
		"With Remember checked, a successful search stores the API key in the preferences file.\n" +
			"Unchecking it and searching again removes the stored key."))
	b.WriteString("\n\n")
	b.WriteString(m.renderRecentLog(valueWidth))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderRecentLog lists the newest log entries, colored by level.
func (m Model) renderRecentLog(width int) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Recent log"))
	b.WriteString("\n")
	switch {
	case m.about.LogFile == "":
		b.WriteString(styles.MutedText.Render("Logging is disabled"))
		return b.String()
	case m.logErr != nil:
		b.WriteString(styles.DangerText.Render(m.logErr.Error()))
		return b.String()
	case len(m.recentLog) == 0:
		b.WriteString(styles.MutedText.Render("No entries"))
		return b.String()
	}

	for _, e := range m.recentLog {
		level := strings.ToUpper(e.Level)
		switch level {
		case "":
			level = "-"
		case "WARNING":
			level = "WARN"
		}
		line := e.Message
		if id := e.RequestID(); id != "" {
			line += "  " + truncate(id, 8)
		}
		b.WriteString(m.levelStyle(e.Level).Width(6).Render(level))
		b.WriteString(styles.Text.Render(truncate(line, width)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warning", "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.MutedText
	}
}
