package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Harshodai/askmukthiguru/internal/breath"
	"github.com/Harshodai/askmukthiguru/internal/chat"
	"github.com/Harshodai/askmukthiguru/internal/ui"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header, status, two dividers, interim, input, error, footer
	reserved := 8
	return max(5, m.height-reserved)
}

func (m Model) listPanelWidth() int {
	if m.width == 0 {
		return 28
	}
	return max(20, m.width*28/100)
}

func (m Model) chatPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.listPanelWidth()-3)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	divider := ui.DividerStyle.Render(strings.Repeat("─", m.width))

	sections := []string{m.renderHeader(), m.renderStatusBar(), divider}
	if m.meditating {
		sections = append(sections, m.renderMeditation())
	} else {
		sections = append(sections, m.renderMainContent())
	}
	sections = append(sections, divider)

	if !m.meditating {
		if m.voiceState.InterimTranscript != "" {
			sections = append(sections, "  "+ui.InterimTextStyle.Render(m.voiceState.InterimTranscript+"▌"))
		}
		sections = append(sections, m.input.View())
	}

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("ASK MUKTHI GURU")
	if m.currentID == "" {
		return title + ui.DimStyle.Render(" · new conversation")
	}
	for _, c := range m.conversations {
		if c.ID == m.currentID && c.Title != "" {
			return title + ui.DimStyle.Render(" · "+c.Title)
		}
	}
	return title
}

func (m Model) renderStatusBar() string {
	var dot string
	switch {
	case m.voiceState.IsListening:
		dot = ui.ListeningDotStyle.Render("● LISTENING")
	case !m.voiceState.IsSupported:
		dot = ui.IdleDotStyle.Render("○ NO MIC")
	default:
		dot = ui.IdleDotStyle.Render("○ VOICE OFF")
	}

	lang := m.voiceState.Language
	if lang == "" {
		lang = voice.DefaultLanguage
	}
	language := ui.LanguageStyle.Render(fmt.Sprintf("[%s]", voice.Locale(lang)))

	status := ui.StatusStyle.Render(m.statusText)
	if m.thinking {
		status = ui.InterimTextStyle.Render(m.statusText)
	}
	return dot + "  " + language + "  " + status
}

func (m Model) renderMainContent() string {
	listW := m.listPanelWidth()
	chatW := m.chatPanelWidth()
	h := m.contentHeight()

	listLines := strings.Split(m.renderConversationPanel(listW, h), "\n")
	chatLines := strings.Split(m.renderChatPanel(chatW, h), "\n")

	divider := ui.DividerStyle.Render("│")
	rows := make([]string, 0, h)
	for i := 0; i < h; i++ {
		left := strings.Repeat(" ", listW)
		if i < len(listLines) {
			left = listLines[i]
		}
		right := ""
		if i < len(chatLines) {
			right = chatLines[i]
		}
		rows = append(rows, left+divider+right)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderConversationPanel(width, height int) string {
	title := fmt.Sprintf("CONVERSATIONS (%d)", len(m.conversations))
	header := ui.PanelTitleStyle.Render(title)
	if m.focusedPanel == FocusConversations {
		header = ui.PanelTitleActiveStyle.Render(title)
	}

	lines := []string{header}
	if len(m.conversations) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No conversations yet"))
	}

	// Each conversation takes two lines.
	start := 0
	if visible := (height - 1) / 2; visible > 0 && m.selected >= visible {
		start = m.selected - visible + 1
	}
	for i := start; i < len(m.conversations); i++ {
		c := m.conversations[i]
		name := c.Title
		if name == "" {
			name = "Untitled"
		}
		name = truncateToWidth(name, width-4)

		var line string
		switch {
		case i == m.selected && m.focusedPanel == FocusConversations:
			line = ui.SelectedStyle.Render("> " + name)
		case c.ID == m.currentID:
			line = ui.CurrentStyle.Render("• " + name)
		default:
			line = "  " + name
		}
		lines = append(lines, line, ui.DimStyle.Render("  "+humanize.Time(c.UpdatedAt)))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChatPanel(width, height int) string {
	lines := []string{ui.PanelTitleStyle.Render("CONVERSATION")}
	body := height - 1

	if len(m.messages) == 0 && m.pending == "" {
		lines = append(lines,
			"",
			ui.DimStyle.Render("  Namaste. Ask a question, press ctrl+r to speak,"),
			ui.DimStyle.Render("  or ctrl+t for a Serene Mind meditation."),
		)
		return strings.Join(lines, "\n")
	}

	const labelWidth = 7
	textWidth := max(10, width-labelWidth-3)
	indent := strings.Repeat(" ", labelWidth+1)

	var display []string
	add := func(label string, text string, style lipgloss.Style) {
		wrapped := wrapText(text, textWidth)
		display = append(display, style.Render(label)+" "+wrapped[0])
		for _, wl := range wrapped[1:] {
			display = append(display, indent+wl)
		}
		display = append(display, "")
	}
	for _, msg := range m.messages {
		if msg.Role == chat.RoleUser {
			add("You   ", msg.Content, ui.UserLabelStyle)
		} else {
			add("Guru  ", msg.Content, ui.GuruLabelStyle)
		}
	}
	if m.pending != "" {
		add("You   ", m.pending, ui.UserLabelStyle)
		display = append(display, indent+ui.InterimTextStyle.Render("..."))
	}

	// Keep the latest lines in view.
	if len(display) > body {
		display = display[len(display)-body:]
	}
	for _, l := range display {
		lines = append(lines, " "+l)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMeditation() string {
	st := m.breath.State()

	var phase string
	switch st.Phase {
	case breath.PhaseInhale:
		phase = ui.PhaseInhaleStyle.Render("INHALE")
	case breath.PhaseHold:
		phase = ui.PhaseHoldStyle.Render("HOLD")
	case breath.PhaseExhale:
		phase = ui.PhaseExhaleStyle.Render("EXHALE")
	case breath.PhaseComplete:
		phase = ui.PhaseCompleteStyle.Render("COMPLETE")
	default:
		phase = ui.DimStyle.Render("READY")
	}
	if st.Phase.Active() && !st.Running {
		phase += ui.DimStyle.Render("  (paused)")
	}

	countdown := " "
	if st.Phase.Active() {
		countdown = ui.CountdownStyle.Render(fmt.Sprintf("%d", st.Countdown))
	}

	lines := []string{
		ui.TitleStyle.Render("Serene Mind"),
		"",
		phase,
		countdown,
		"",
		breath.Guidance(st.Phase),
		"",
		m.bar.ViewAs(m.breath.Progress()),
		ui.DimStyle.Render(fmt.Sprintf("%s elapsed · %d breath cycles · %s to go",
			formatSeconds(st.Elapsed), st.Cycles, formatSeconds(st.Remaining))),
	}
	if m.stats != nil {
		lines = append(lines, "", ui.DimStyle.Render(fmt.Sprintf("%s sessions · %d min total · %d day streak",
			humanize.Comma(int64(m.stats.TotalSessions)), m.stats.TotalMinutes(), m.stats.StreakDays)))
	}

	box := ui.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	if m.meditating {
		action := "Begin"
		if m.breath.State().Running {
			action = "Pause"
		}
		parts = append(parts, key("Space", action), key("s", "Stop"), key("r", "Reset"), key("Esc", "Close"))
	} else {
		voiceAction := "Speak"
		if m.voiceState.IsListening {
			voiceAction = "Stop mic"
		}
		parts = append(parts,
			key("Enter", "Send"),
			key("^R", voiceAction),
			key("^L", "Language"),
			key("^T", "Meditate"),
			key("^N", "New"),
			key("Tab", "Focus"),
		)
		if m.focusedPanel == FocusConversations {
			parts = append(parts, key("j/k", "Nav"), key("d", "Delete"))
		}
	}
	parts = append(parts, key("^C", "Quit"))
	return strings.Join(parts, "  ")
}

func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Helpers

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	if width <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
