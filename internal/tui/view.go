package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = tuistyles.ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
	case m.loading:
		content = tuistyles.BorderStyle.Render(m.spinner.View() + " " + m.loadingMessage)
	default:
		switch m.currentScene {
		case SceneHome:
			content = m.homeModel.View()
		case SceneResults:
			content = m.resultsModel.View()
		case SceneCompare:
			content = m.compareModel.View()
		case SceneOptimize:
			content = m.optimizeModel.View()
		case SceneParameters:
			content = m.parametersModel.View()
		case SceneHelp:
			content = m.renderHelp()
		default:
			content = "Unknown scene"
		}
	}
	return m.renderApp(content)
}

// renderApp wraps content with the title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(1, m.height-4)
	body := lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		body,
		tuistyles.StatusBarStyle.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp())),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	crumb := m.currentScene.String()
	if m.plan != nil && m.plan.Name != "" {
		crumb = m.plan.Name + " / " + crumb
	}
	if m.variant != nil {
		crumb += " (adjusted)"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("rpsim - Household Retirement Simulator"),
		tuistyles.SubtitleStyle.Render(crumb),
	)
}

// renderHelp renders the help scene
func (m Model) renderHelp() string {
	text := "Navigate with the keys below. On Results, ↑/↓ scroll the years and\n" +
		"the box under the table explains the selected year. On Compare, pick\n" +
		"templates with space and press enter; with none picked the plan is\n" +
		"compared across every withdrawal order. Optimize searches spending,\n" +
		"claim age or withdrawal order. Parameters reruns the plan with\n" +
		"adjusted sliders and ctrl+s saves the adjusted plan.\n\n"
	return tuistyles.BorderStyle.Render(text + m.help.FullHelpView(m.keys.FullHelp()))
}
