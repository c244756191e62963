package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rpsim/internal/breakeven"
	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/rgehrsitz/rpsim/internal/tui/scenes"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
)

const planYAML = `name: TUI plan
start_year: 2025
years: 5
household:
  people:
    - id: sam
      birth_year: 1958
accounts:
  - id: ira
    type: taxDeferred
    owner: sam
    balance: 800000
    expected_return_pct: 5
income_streams:
  - name: SS
    kind: socialSecurity
    owner: sam
    annual_amount: 30000
    start_age: 67
spending:
  base_target_annual_spend: 60000
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planYAML), 0o644))
	return path
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and returns the message its command produces.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

func TestModel_LoadAndSimulate(t *testing.T) {
	m := NewModel(writePlan(t))
	assert.True(t, m.loading)

	msg := loadPlanCmd(m.planPath)()
	loaded, ok := msg.(tuimsg.PlanLoadedMsg)
	require.True(t, ok, "expected PlanLoadedMsg, got %T", msg)
	assert.Equal(t, "TUI plan", loaded.Plan.Name)

	m, msg = step(t, m, loaded)
	assert.True(t, m.loading)
	done, ok := msg.(tuimsg.SimulationCompleteMsg)
	require.True(t, ok, "expected SimulationCompleteMsg, got %T", msg)
	require.NoError(t, done.Err)

	m, _ = step(t, m, done)
	assert.False(t, m.loading)
	require.NotNil(t, m.result)
	assert.Len(t, m.result.Yearly, 5)
	assert.Contains(t, m.View(), "Terminal Portfolio")
}

func TestModel_LoadError(t *testing.T) {
	m := NewModel(filepath.Join(t.TempDir(), "missing.yaml"))
	msg := loadPlanCmd(m.planPath)()
	_, isErr := msg.(tuimsg.ErrorMsg)
	require.True(t, isErr)

	m, _ = step(t, m, msg)
	assert.Contains(t, m.View(), "Error:")

	// Any key clears the error
	m, _ = step(t, m, runes("x"))
	assert.Nil(t, m.err)
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel("unused.yaml")
	m.loading = false

	m, msg := step(t, m, runes("r"))
	assert.Equal(t, NavigateMsg{Scene: SceneResults}, msg)
	m, _ = step(t, m, msg)
	assert.Equal(t, SceneResults, m.currentScene)

	m, msg = step(t, m, runes("c"))
	m, _ = step(t, m, msg)
	assert.Equal(t, SceneCompare, m.currentScene)
	assert.Equal(t, SceneResults, m.previousScene)

	m, msg = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = step(t, m, msg)
	assert.Equal(t, SceneResults, m.currentScene)

	m, msg = step(t, m, runes("?"))
	m, _ = step(t, m, msg)
	assert.Contains(t, m.View(), "withdrawal order")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Compare(t *testing.T) {
	m := NewModel(writePlan(t))
	m, msg := step(t, m, loadPlanCmd(m.planPath)())
	m, _ = step(t, m, msg)

	m, msg = step(t, m, tuimsg.CompareRequestedMsg{Templates: []string{"spend_less_10"}})
	assert.True(t, m.loading)
	done, ok := msg.(tuimsg.ComparisonCompleteMsg)
	require.True(t, ok, "expected ComparisonCompleteMsg, got %T", msg)
	require.NoError(t, done.Err)
	require.Len(t, done.Set.AlternativeResults, 1)

	m, _ = step(t, m, done)
	m.currentScene = SceneCompare
	assert.Contains(t, m.View(), "spend_less_10")
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := NewModel(writePlan(t))
	m, msg := step(t, m, loadPlanCmd(m.planPath)())
	m, _ = step(t, m, msg)
	require.NotNil(t, m.result)
	return m
}

func TestModel_ParametersRerun(t *testing.T) {
	m := loaded(t)
	before := m.result.TerminalValue()

	scale := []transform.PlanTransform{&transform.ScaleSpending{Pct: decimal.NewFromInt(90)}}
	m, msg := step(t, m, tuimsg.ParametersAppliedMsg{Transforms: scale})
	assert.True(t, m.loading)
	require.NotNil(t, m.variant)
	assert.True(t, m.variant.Spending.BaseTargetAnnualSpend.Equal(decimal.NewFromInt(54000)))
	assert.True(t, m.plan.Spending.BaseTargetAnnualSpend.Equal(decimal.NewFromInt(60000)), "loaded plan is untouched")

	done, ok := msg.(tuimsg.SimulationCompleteMsg)
	require.True(t, ok, "expected SimulationCompleteMsg, got %T", msg)
	m, _ = step(t, m, done)
	require.NotNil(t, m.result)
	assert.True(t, m.result.TerminalValue().GreaterThan(before), "spending less leaves more")

	m.currentScene = SceneParameters
	view := m.View()
	assert.Contains(t, view, "(adjusted)")
	assert.Contains(t, view, "Running with: Scale annual spending to 90%")

	// no transforms goes back to the loaded plan
	m, _ = step(t, m, tuimsg.ParametersAppliedMsg{})
	assert.Nil(t, m.variant)

	// an invalid transform surfaces as an error
	bad := []transform.PlanTransform{&transform.ScaleSpending{Pct: decimal.NewFromInt(500)}}
	m, msg = step(t, m, tuimsg.ParametersAppliedMsg{Transforms: bad})
	assert.Nil(t, msg)
	assert.Error(t, m.err)
}

func TestModel_SaveAdjustedPlan(t *testing.T) {
	m := loaded(t)

	scale := []transform.PlanTransform{&transform.ScaleSpending{Pct: decimal.NewFromInt(110)}}
	m, msg := step(t, m, tuimsg.SavePlanRequestedMsg{Transforms: scale})
	saved, ok := msg.(tuimsg.PlanSavedMsg)
	require.True(t, ok, "expected PlanSavedMsg, got %T", msg)
	require.NoError(t, saved.Err)
	assert.Equal(t, filepath.Join(filepath.Dir(m.planPath), "plan.adjusted.yaml"), saved.Path)

	plan, err := config.NewInputParser().LoadFromFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, "TUI plan", plan.Name)
	assert.True(t, plan.Spending.BaseTargetAnnualSpend.Equal(decimal.NewFromInt(66000)))

	m, _ = step(t, m, saved)
	m.currentScene = SceneParameters
	assert.Contains(t, m.View(), "Saved adjusted plan to")
}

func TestAdjustedPlanPath(t *testing.T) {
	assert.Equal(t, "dir/plan.adjusted.yaml", adjustedPlanPath("dir/plan.yaml"))
	assert.Equal(t, "plan.adjusted.yml", adjustedPlanPath("plan.yml"))
	assert.Equal(t, "plan.adjusted.yaml", adjustedPlanPath("plan"))
}

func TestModel_Optimize(t *testing.T) {
	m := loaded(t)

	m, msg := step(t, m, runes("o"))
	m, _ = step(t, m, msg)
	require.Equal(t, SceneOptimize, m.currentScene)
	assert.Contains(t, m.View(), "Break-Even Optimizer")

	m, msg = step(t, m, tuimsg.OptimizeRequestedMsg{Target: breakeven.OptimizeWithdrawalOrder, Goal: breakeven.GoalMaximizeTerminal})
	assert.True(t, m.loading)
	done, ok := msg.(tuimsg.OptimizationCompleteMsg)
	require.True(t, ok, "expected OptimizationCompleteMsg, got %T", msg)
	require.NoError(t, done.Err)
	require.NotNil(t, done.Result.OptimalOrder)

	m, _ = step(t, m, done)
	assert.False(t, m.loading)
	assert.Equal(t, scenes.ModeShowResults, m.optimizeModel.Mode())
	assert.Contains(t, m.View(), "Optimization Results")

	// an unknown member fails and the scene starts over
	m, msg = step(t, m, tuimsg.OptimizeRequestedMsg{Target: breakeven.OptimizeSSAge, Goal: breakeven.GoalMaximizeTerminal, Person: "nobody"})
	m, _ = step(t, m, msg)
	assert.Error(t, m.err)
	assert.Equal(t, scenes.ModeSelectTarget, m.optimizeModel.Mode())
}

func TestModel_OptimizeInputCapturesKeys(t *testing.T) {
	m := loaded(t)
	m.currentScene = SceneOptimize

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.optimizeModel.Capturing())

	// q is typed, not a quit
	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit)
	}
	assert.Equal(t, SceneOptimize, m.currentScene)
	assert.Equal(t, scenes.ModeSetInput, m.optimizeModel.Mode())

	// esc leaves the input and stays on the scene
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, SceneOptimize, m.currentScene)
	assert.Equal(t, scenes.ModeSelectTarget, m.optimizeModel.Mode())
}

func TestSceneString(t *testing.T) {
	assert.Equal(t, "Compare", SceneCompare.String())
	assert.Equal(t, "Parameters", SceneParameters.String())
	assert.Equal(t, "Unknown", Scene(99).String())
}
