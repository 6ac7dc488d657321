package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/export"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportFields struct {
	timeframe Timeframe
	path      string
}

// ExportModel writes the filtered expenses and a summary into a zip archive on disk.
type ExportModel struct {
	CommonModel
	exportService *export.Service
	ctrl          *budget.Controller

	state   exportState
	fields  *exportFields
	form    *huh.Form
	spinner spinner.Model

	file    string
	summary string
	err     error
}

func NewExportModel(svc *export.Service, ctrl *budget.Controller) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	m := ExportModel{
		exportService: svc,
		ctrl:          ctrl,
		state:         exportStateForm,
		fields:        &exportFields{timeframe: TimeframeThisMonth, path: "./exports"},
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Expenses" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(FilterFor(m.fields.timeframe, time.Now()), m.fields.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.file = result.file
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildForm() *huh.Form {
	opts := make([]huh.Option[Timeframe], 0, len(timeframes))
	for _, tf := range timeframes {
		opts = append(opts, huh.NewOption(tf.String(), tf))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().
				Title("Timeframe").
				Options(opts...).
				Value(&m.fields.timeframe),
			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.path).
				Validate(required),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return m.form.View()
	case exportStateExporting:
		return fmt.Sprintf("%s Exporting expenses...", m.spinner.View())
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return dangerStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Export Complete!"),
		faintStyle.Render(m.file),
		"",
		m.summary,
	)
}

type exportResultMsg struct {
	file    string
	summary string
	err     error
}

func (m ExportModel) runExportCmd(filter export.Filter, dir string) tea.Cmd {
	svc, ctrl := m.exportService, m.ctrl

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("create export directory: %w", err)}
		}

		path := filepath.Join(dir, svc.Filename("zip"))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("create export file: %w", err)}
		}
		defer f.Close()

		state := ctrl.State()
		if err := svc.WriteZip(f, state, filter); err != nil {
			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: fmt.Errorf("close export file: %w", err)}
		}

		return exportResultMsg{file: path, summary: svc.Summary(state, svc.Expenses(state, filter))}
	}
}
