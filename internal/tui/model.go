package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/calculation"
	"github.com/taxplan-in/taxplan/internal/domain"
)

type view int

const (
	viewForm view = iota
	viewReport
)

// field indices into Model.inputs
const (
	fieldGrossIncome = iota
	field80C
	field80D
	field80TTA
	fieldHRAReceived
	fieldRentPaid
	fieldBasicSalary
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Gross Annual Income",
	"80C Investments (PPF, ELSS, ...)",
	"80D Health Insurance Premium",
	"80TTA Savings Interest",
	"HRA Received",
	"Rent Paid",
	"Basic Salary",
}

var ageBands = []domain.AgeBand{domain.AgeBandBelow60, domain.AgeBandSenior, domain.AgeBandSuperSenior}
var cities = []domain.CityClass{domain.CityNonMetro, domain.CityMetro}
var regimes = []domain.RegimeChoice{domain.RegimeChoiceAuto, domain.RegimeChoiceOld, domain.RegimeChoiceNew}

// Model is the interactive profile form and report browser.
type Model struct {
	engine *calculation.TaxEngine

	inputs []textinput.Model
	focus  int

	ageBandIdx int
	cityIdx    int
	regimeIdx  int
	year       string

	view   view
	report *domain.TaxReport
	err    error

	width  int
	height int
}

// NewModel creates the form pre-filled with a blank profile.
func NewModel(engine *calculation.TaxEngine) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 12
		ti.Width = 14
		inputs[i] = ti
	}
	inputs[fieldGrossIncome].Focus()

	return Model{
		engine: engine,
		inputs: inputs,
		year:   "2024-25",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.view == viewReport && msg.String() == "q" {
				m.view = viewForm
				return m, nil
			}
			return m, tea.Quit
		case "esc":
			if m.view == viewReport {
				m.view = viewForm
				return m, nil
			}
			return m, tea.Quit
		}

		if m.view == viewReport {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % fieldCount
			return m.refocus()
		case "shift+tab", "up":
			m.focus = (m.focus + fieldCount - 1) % fieldCount
			return m.refocus()
		case "ctrl+a":
			m.ageBandIdx = (m.ageBandIdx + 1) % len(ageBands)
			return m, nil
		case "ctrl+t":
			m.cityIdx = (m.cityIdx + 1) % len(cities)
			return m, nil
		case "ctrl+r":
			m.regimeIdx = (m.regimeIdx + 1) % len(regimes)
			return m, nil
		case "ctrl+y":
			if m.year == "2024-25" {
				m.year = "2025-26"
			} else {
				m.year = "2024-25"
			}
			return m, nil
		case "enter":
			m.compute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) refocus() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, textinput.Blink
}

func (m *Model) compute() {
	profile, err := m.buildProfile()
	if err != nil {
		m.err = err
		return
	}
	report, err := m.engine.GenerateReport(profile)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.report = report
	m.view = viewReport
}

func (m *Model) buildProfile() (*domain.Profile, error) {
	amounts := make([]decimal.Decimal, fieldCount)
	for i, ti := range m.inputs {
		value := ti.Value()
		if value == "" {
			amounts[i] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%s: not a number: %q", fieldLabels[i], value)
		}
		amounts[i] = d
	}

	profile := &domain.Profile{
		GrossIncome:    amounts[fieldGrossIncome],
		AgeBand:        ageBands[m.ageBandIdx],
		AssessmentYear: m.year,
		Regime:         regimes[m.regimeIdx],
		Deductions: domain.ClaimedDeductions{
			Section80C:   amounts[field80C],
			Section80D:   amounts[field80D],
			Section80TTA: amounts[field80TTA],
		},
	}
	if amounts[fieldHRAReceived].GreaterThan(decimal.Zero) || amounts[fieldRentPaid].GreaterThan(decimal.Zero) {
		profile.HRA = &domain.HRADetails{
			HRAReceived: amounts[fieldHRAReceived],
			RentPaid:    amounts[fieldRentPaid],
			BasicSalary: amounts[fieldBasicSalary],
			City:        cities[m.cityIdx],
		}
	}
	return profile, nil
}

// Run starts the interactive session.
func Run(engine *calculation.TaxEngine) error {
	p := tea.NewProgram(NewModel(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
