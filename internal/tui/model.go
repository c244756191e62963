package tui

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rpsim/internal/breakeven"
	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/compare"
	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/rgehrsitz/rpsim/internal/tui/scenes"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	planPath string
	plan     *domain.PlanInput
	variant  *domain.PlanInput // plan with the parameter-scene transforms applied
	result   *domain.PlanResult
	engine   *calculation.Engine

	homeModel       *scenes.HomeModel
	resultsModel    *scenes.ResultsModel
	compareModel    *scenes.CompareModel
	optimizeModel   *scenes.OptimizeModel
	parametersModel *scenes.ParametersModel

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	err            error
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model for the plan file at planPath
func NewModel(planPath string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = tuistyles.StatusKeyStyle
	return Model{
		currentScene:   SceneHome,
		planPath:       planPath,
		engine:         calculation.NewEngine(),
		homeModel:       scenes.NewHomeModel(),
		resultsModel:    scenes.NewResultsModel(),
		compareModel:    scenes.NewCompareModel(),
		optimizeModel:   scenes.NewOptimizeModel(),
		parametersModel: scenes.NewParametersModel(),
		keys:            defaultKeyMap(),
		help:            help.New(),
		spinner:         sp,
		loading:         true,
		loadingMessage:  "Loading plan...",
		width:           80,
		height:          24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadPlanCmd(m.planPath), m.spinner.Tick)
}

// loadPlanCmd parses and validates the plan file
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		plan, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.PlanLoadedMsg{Plan: plan}
	}
}

// activePlan is the plan the scenes work on: the adjusted variant when
// parameters have been applied, otherwise the loaded plan
func (m Model) activePlan() *domain.PlanInput {
	if m.variant != nil {
		return m.variant
	}
	return m.plan
}

// simulateCmd runs the plan through the engine
func simulateCmd(engine *calculation.Engine, plan *domain.PlanInput) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Run(context.Background(), *plan)
		return tuimsg.SimulationCompleteMsg{Result: result, Err: err}
	}
}

// compareCmd compares the plan against the named templates, or against every
// withdrawal order when none are named
func compareCmd(engine *calculation.Engine, plan *domain.PlanInput, templates []string) tea.Cmd {
	return func() tea.Msg {
		set, err := compare.NewCompareEngine(engine).Compare(context.Background(), plan, compare.CompareOptions{Templates: templates})
		return tuimsg.ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// templateOptions lists the what-if templates that apply to a plan
func templateOptions(plan *domain.PlanInput) []scenes.TemplateOption {
	registry := transform.CreateBuiltInTemplates(plan)
	var opts []scenes.TemplateOption
	for _, name := range registry.List() {
		tmpl, _ := registry.Get(name)
		opts = append(opts, scenes.TemplateOption{Name: tmpl.Name, Description: tmpl.Description})
	}
	return opts
}

// optimizeCmd runs the break-even solver
func optimizeCmd(engine *calculation.Engine, plan *domain.PlanInput, req tuimsg.OptimizeRequestedMsg) tea.Cmd {
	return func() tea.Msg {
		constraints := breakeven.DefaultConstraints(req.Person)
		if req.MinSuccessRate != nil {
			constraints.MinSuccessRate = req.MinSuccessRate
		}
		result, err := breakeven.NewDefaultSolver(engine).Optimize(context.Background(), breakeven.OptimizationRequest{
			Plan:        plan,
			Target:      req.Target,
			Goal:        req.Goal,
			Constraints: constraints,
		})
		return tuimsg.OptimizationCompleteMsg{Result: result, Err: err}
	}
}

// savePlanCmd writes the plan with transforms applied next to the plan file
func savePlanCmd(planPath string, plan *domain.PlanInput, transforms []transform.PlanTransform) tea.Cmd {
	return func() tea.Msg {
		adjusted, err := transform.ApplyTransforms(plan, transforms)
		if err != nil {
			return tuimsg.PlanSavedMsg{Err: err}
		}
		path := adjustedPlanPath(planPath)
		if err := output.SavePlan(adjusted, path); err != nil {
			return tuimsg.PlanSavedMsg{Err: err}
		}
		return tuimsg.PlanSavedMsg{Path: path}
	}
}

// adjustedPlanPath maps plan.yaml to plan.adjusted.yaml
func adjustedPlanPath(planPath string) string {
	ext := filepath.Ext(planPath)
	if ext == "" {
		return planPath + ".adjusted.yaml"
	}
	return strings.TrimSuffix(planPath, ext) + ".adjusted" + ext
}
