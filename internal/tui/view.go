package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
	"github.com/taxplan-in/taxplan/internal/output"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(34)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Width(34)
	toggleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	chosenStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	boxStyle          = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 2)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.view == viewReport && m.report != nil {
		return m.reportView()
	}
	return m.formView()
}

func (m Model) formView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Indian Tax Planning Assistant"))
	b.WriteString("\n")

	for i, ti := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(fieldLabels[i]), ti.View())
	}

	fmt.Fprintf(&b, "\n%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Width(16).Render("Age Band"), toggleStyle.Render(string(ageBands[m.ageBandIdx])),
		labelStyle.Width(6).Render("City"), toggleStyle.Render(string(cities[m.cityIdx])),
		labelStyle.Width(8).Render("Regime"), toggleStyle.Render(string(regimes[m.regimeIdx])),
		labelStyle.Width(6).Render("Year"), toggleStyle.Render(m.year))

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render(
		"tab/shift+tab fields • ctrl+a age • ctrl+t city • ctrl+r regime • ctrl+y year • enter compute • q quit"))
	return boxStyle.Render(b.String())
}

func (m Model) reportView() string {
	r := m.report
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Tax Report — AY %s", r.AssessmentYear)))
	b.WriteString("\n")

	b.WriteString(renderResult("Old Regime", r.Old, r.Chosen == domain.RegimeOld))
	b.WriteString("\n")
	b.WriteString(renderResult("New Regime", r.New, r.Chosen == domain.RegimeNew))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s, saving %s\n",
		chosenStyle.Render("Recommended:"),
		chosenStyle.Render(strings.ToUpper(string(r.Chosen))),
		output.FormatCurrency(r.Savings))

	if len(r.Recommendations) > 0 {
		b.WriteString("\nTax saving opportunities:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %-6s invest %s more, save up to %s\n",
				rec.Section,
				output.FormatCurrency(rec.Headroom),
				output.FormatCurrency(rec.EstimatedSaving))
		}
	}

	b.WriteString(helpStyle.Render("esc/q back • ctrl+c quit"))
	return boxStyle.Render(b.String())
}

func renderResult(title string, result domain.TaxResult, chosen bool) string {
	marker := "  "
	if chosen {
		marker = chosenStyle.Render("▶ ")
	}
	line := fmt.Sprintf("%s%s: taxable %s, tax %s (effective %s)",
		marker, title,
		output.FormatCurrency(result.TaxableIncome),
		output.FormatCurrency(result.TotalPayable),
		output.FormatPercentage(result.EffectiveRate))
	if result.Rebate.GreaterThan(decimal.Zero) {
		line += fmt.Sprintf(" — rebate %s applied", output.FormatCurrency(result.Rebate))
	}
	return line
}
