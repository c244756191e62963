package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		m.optimizeModel.SetSize(msg.Width, msg.Height)
		m.parametersModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case tuimsg.PlanLoadedMsg:
		m.plan = msg.Plan
		m.variant = nil
		m.result = nil
		m.err = nil
		m.homeModel.SetPlan(msg.Plan)
		m.homeModel.SetResult(nil)
		m.compareModel.SetTemplates(templateOptions(msg.Plan))
		m.compareModel.SetComparison(nil)
		m.optimizeModel.SetPlan(msg.Plan)
		m.parametersModel.SetPlan(msg.Plan)
		m.loading = true
		m.loadingMessage = "Running simulation..."
		return m, simulateCmd(m.engine, msg.Plan)

	case tuimsg.SimulationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.homeModel.SetResult(msg.Result)
		m.resultsModel.SetResult(msg.Result)
		return m, nil

	case tuimsg.CompareRequestedMsg:
		if m.plan == nil {
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Comparing variants..."
		return m, compareCmd(m.engine, m.activePlan(), msg.Templates)

	case tuimsg.ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.compareModel.SetComparison(nil)
			return m, nil
		}
		m.compareModel.SetComparison(msg.Set)
		return m, nil

	case tuimsg.OptimizeRequestedMsg:
		if m.plan == nil {
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Optimizing..."
		return m, optimizeCmd(m.engine, m.activePlan(), msg)

	case tuimsg.OptimizationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.optimizeModel.SetResult(nil)
			return m, nil
		}
		m.optimizeModel.SetResult(msg.Result)
		return m, nil

	case tuimsg.ParametersAppliedMsg:
		if m.plan == nil {
			return m, nil
		}
		m.variant = nil
		status := "Running the plan as loaded"
		if len(msg.Transforms) > 0 {
			variant, err := transform.ApplyTransforms(m.plan, msg.Transforms)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.variant = variant
			status = "Running with: " + transform.Describe(msg.Transforms)
		}
		m.parametersModel.SetStatus(status)
		m.result = nil
		m.homeModel.SetPlan(m.activePlan())
		m.homeModel.SetResult(nil)
		m.loading = true
		m.loadingMessage = "Running simulation..."
		return m, simulateCmd(m.engine, m.activePlan())

	case tuimsg.SavePlanRequestedMsg:
		if m.plan == nil {
			return m, nil
		}
		return m, savePlanCmd(m.planPath, m.plan, msg.Transforms)

	case tuimsg.PlanSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.parametersModel.SetStatus("Saved adjusted plan to " + msg.Path)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed text goes to the scene, so letters do not trigger global keys
	if m.currentScene == SceneOptimize && m.optimizeModel.Capturing() &&
		m.err == nil && !m.loading && msg.Type != tea.KeyCtrlC {
		return m.updateCurrentScene(msg)
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		return m.navigate(SceneHelp)
	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneHome {
			target := m.previousScene
			if target == m.currentScene {
				target = SceneHome
			}
			return m.navigate(target)
		}
		return m, nil
	case key.Matches(msg, m.keys.Home):
		return m.navigate(SceneHome)
	case key.Matches(msg, m.keys.Results):
		return m.navigate(SceneResults)
	case key.Matches(msg, m.keys.Compare):
		return m.navigate(SceneCompare)
	case key.Matches(msg, m.keys.Optimize):
		return m.navigate(SceneOptimize)
	case key.Matches(msg, m.keys.Parameters):
		return m.navigate(SceneParameters)
	case key.Matches(msg, m.keys.Rerun):
		m.loading = true
		m.loadingMessage = "Reloading plan..."
		return m, loadPlanCmd(m.planPath)
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	return m, func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneOptimize:
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	}
	return m, cmd
}
