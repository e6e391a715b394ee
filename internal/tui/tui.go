// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the deployment dashboard, shown when gadget is run
// without a subcommand in an interactive terminal. It lists the locally
// recorded deployments and lets the operator copy extrinsic hashes.
package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/model"
)

// deploymentsMsg carries the registry rows into the model.
type deploymentsMsg struct {
	rows []model.Deployment
	err  error
}

// dashboardModel is the top-level model for the deployment dashboard.
type dashboardModel struct {
	table       table.Model
	deployments []model.Deployment
	status      string
	err         error
	width       int
}

func newDashboardModel() dashboardModel {
	columns := []table.Column{
		{Title: i18n.T("list.header_blueprint"), Width: 18},
		{Title: i18n.T("list.header_id"), Width: 6},
		{Title: i18n.T("list.header_status"), Width: 10},
		{Title: i18n.T("list.header_hash"), Width: 36},
		{Title: i18n.T("list.header_created"), Width: 19},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("231")).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)
	return dashboardModel{table: t}
}

// loadDeployments fetches the registry rows off the Update loop.
func loadDeployments() tea.Msg {
	rows, err := db.GetAllDeployments()
	return deploymentsMsg{rows: rows, err: err}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDeployments
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.table.SetWidth(msg.Width - h)
		if msg.Height-v-6 > 3 {
			m.table.SetHeight(msg.Height - v - 6)
		}
		return m, nil

	case deploymentsMsg:
		m.err = msg.err
		m.deployments = msg.rows
		rows := make([]table.Row, 0, len(msg.rows))
		for _, d := range msg.rows {
			rows = append(rows, table.Row{
				d.BlueprintName,
				fmt.Sprintf("%d", d.BlueprintID),
				d.Status,
				d.ExtrinsicHash,
				d.CreatedAt,
			})
		}
		m.table.SetRows(rows)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.status = ""
			return m, loadDeployments
		case "c":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.deployments) {
				if err := clipboard.WriteAll(m.deployments[idx].ExtrinsicHash); err != nil {
					m.status = errorStyle.Render(i18n.T("dashboard.copy_failed", err))
				} else {
					m.status = successStyle.Render(i18n.T("dashboard.copied"))
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	var b []string
	b = append(b, mainTitleStyle.Render(i18n.T("dashboard.title")))

	if m.err != nil {
		b = append(b, errorStyle.Render(m.err.Error()))
		b = append(b, helpStyle.Render(i18n.T("dashboard.help")))
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, b...))
	}

	var submitted, failed int
	for _, d := range m.deployments {
		switch d.Status {
		case model.StatusSubmitted:
			submitted++
		case model.StatusFailed:
			failed++
		}
	}
	summary := fmt.Sprintf("%s (%s, %s)",
		i18n.T("dashboard.deployments", len(m.deployments)),
		i18n.T("dashboard.submitted", submitted),
		i18n.T("dashboard.failed", failed),
	)
	b = append(b, summaryStyle.Render(summary))

	if len(m.deployments) == 0 {
		b = append(b, helpStyle.Render(i18n.T("dashboard.no_rows")))
	} else {
		b = append(b, tableBorderStyle.Render(m.table.View()))
	}

	if m.status != "" {
		b = append(b, m.status)
	}
	b = append(b, helpStyle.Render(i18n.T("dashboard.help")))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}

// Run starts the dashboard and blocks until the user quits.
func Run() error {
	p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
