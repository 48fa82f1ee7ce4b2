// Package renderer formats the tracker state as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/fintrack"
)

//go:embed templates/*.md
var templates embed.FS

// Dashboard is the overview of a user's finances.
type Dashboard struct {
	AsOf        time.Time
	Valuation   fintrack.Valuation
	CashFlow    fintrack.Summary
	Change      fintrack.Money   // net worth change over the performance window
	ChangePct   fintrack.Percent // same, in percent
	Days        int              // size of the performance window
	TopHoldings int              // number of holdings listed, all when 0
}

// Lines returns the holdings listed in the dashboard.
func (d *Dashboard) Lines() []fintrack.HoldingValuation {
	if d.TopHoldings <= 0 || d.TopHoldings >= len(d.Valuation.Lines) {
		return d.Valuation.Lines
	}
	return d.Valuation.Lines[:d.TopHoldings]
}

// DashboardOptions selects the dashboard sections.
type DashboardOptions struct {
	SkipHoldings bool // Do not render the holdings section.
	SkipCashFlow bool // Do not render the cash-flow section.
}

// RenderDashboard renders the Dashboard to a markdown string.
func RenderDashboard(d *Dashboard, opts DashboardOptions) string {
	partials := map[string]string{
		"dashboard_title":    "dashboard_title.md",
		"dashboard_holdings": "dashboard_holdings.md",
		"dashboard_cashflow": "dashboard_cashflow.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipHoldings {
		partials["dashboard_holdings"] = ""
	}
	if opts.SkipCashFlow {
		partials["dashboard_cashflow"] = ""
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
