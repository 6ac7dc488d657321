package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/importer"
)

const importTimeout = 2 * time.Minute

var formatLabels = map[importer.Format]string{
	importer.FormatStash: "Stash export (CSV)",
	importer.FormatCGD:   "Caixa Geral de Depósitos statement",
}

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

// ImportModel walks through picking a statement format and file, then records the statement on the budget.
type ImportModel struct {
	CommonModel
	importService *importer.Service
	ctrl          *budget.Controller

	state        importState
	filePicker   filepicker.Model
	formatCursor int

	result *budget.ImportResult
	status string
	err    error
}

func NewImportModel(svc *importer.Service, ctrl *budget.Controller) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		ctrl:          ctrl,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateFormatSelect {
		return "↑/↓: choose format | Enter: select | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) selectedFormat() importer.Format {
	return importer.Formats[m.formatCursor]
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.result = msg.result

		if msg.err != nil {
			m.status = DescribeError(msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenses.", msg.result.Expenses)

		return m, func() tea.Msg { return BudgetChangedMsg{Notice: m.status} }
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(m.selectedFormat(), path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult:
		return m, Back
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case "down", "j":
		if m.formatCursor < len(importer.Formats)-1 {
			m.formatCursor++
		}
	case "enter":
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return fmt.Sprintf("Select file to import (%s):\n\n%s", formatLabels[m.selectedFormat()], m.filePicker.View())
	case importStateImporting:
		return m.status
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Statement format:\n\n"

	for i, f := range importer.Formats {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, formatLabels[f])
	}

	return s
}

func (m ImportModel) viewResult() string {
	if m.err != nil {
		return dangerStyle.Render(m.status) + "\n\n(Esc to go back)"
	}

	cur := m.ctrl.State().Profile.Currency
	body := successStyle.Render(m.status)

	if m.result.Income > 0 {
		body += "\n" + fmt.Sprintf("Added %s of income.", FormatAmount(cur, m.result.Income))
	}

	if m.result.Duplicates > 0 {
		body += "\n" + faintStyle.Render(fmt.Sprintf("Skipped %d already logged.", m.result.Duplicates))
	}

	return body + "\n\n(Esc to go back)"
}

type importResultMsg struct {
	result *budget.ImportResult
	err    error
}

func (m ImportModel) importCmd(format importer.Format, path string) tea.Cmd {
	svc, ctrl := m.importService, m.ctrl

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, ctrl, format, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
