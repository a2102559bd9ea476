package selection

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	promptCursorMarkerConstant     = "> "
	promptNoCursorMarkerConstant   = "  "
	promptSelectedMarkerConstant   = "[x] "
	promptUnselectedMarkerConstant = "[ ] "
	promptHelpLineConstant         = "space: toggle  a: all  enter: confirm  esc: cancel"
)

var (
	promptTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	promptCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	promptSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	promptHelpStyle     = lipgloss.NewStyle().Faint(true)
)

// pickerModel is the bubbletea model behind the multi-select prompt.
type pickerModel struct {
	title        string
	candidates   []Choice
	cursorIndex  int
	selectedRows map[int]struct{}
	confirmed    bool
	cancelled    bool
}

func newPickerModel(title string, candidates []Choice) pickerModel {
	return pickerModel{
		title:        title,
		candidates:   candidates,
		selectedRows: map[int]struct{}{},
	}
}

// Init implements tea.Model.
func (model pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model pickerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, isKeyMessage := message.(tea.KeyMsg)
	if !isKeyMessage {
		return model, nil
	}

	switch keyMessage.String() {
	case "up", "k":
		if model.cursorIndex > 0 {
			model.cursorIndex--
		}
	case "down", "j":
		if model.cursorIndex < len(model.candidates)-1 {
			model.cursorIndex++
		}
	case " ":
		if _, alreadySelected := model.selectedRows[model.cursorIndex]; alreadySelected {
			delete(model.selectedRows, model.cursorIndex)
		} else {
			model.selectedRows[model.cursorIndex] = struct{}{}
		}
	case "a":
		for candidateIndex := range model.candidates {
			model.selectedRows[candidateIndex] = struct{}{}
		}
	case "enter":
		model.confirmed = true
		return model, tea.Quit
	case "esc", "q", "ctrl+c":
		model.cancelled = true
		return model, tea.Quit
	}

	return model, nil
}

// View implements tea.Model.
func (model pickerModel) View() string {
	view := promptTitleStyle.Render(model.title) + "\n"

	for candidateIndex, candidate := range model.candidates {
		cursorMarker := promptNoCursorMarkerConstant
		if candidateIndex == model.cursorIndex {
			cursorMarker = promptCursorStyle.Render(promptCursorMarkerConstant)
		}

		selectionMarker := promptUnselectedMarkerConstant
		lineStyle := lipgloss.NewStyle()
		if _, rowSelected := model.selectedRows[candidateIndex]; rowSelected {
			selectionMarker = promptSelectedMarkerConstant
			lineStyle = promptSelectedStyle
		}

		view += cursorMarker + lineStyle.Render(selectionMarker+candidate.Label) + "\n"
	}

	return view + promptHelpStyle.Render(promptHelpLineConstant) + "\n"
}

func (model pickerModel) selectedChoices() []Choice {
	var selectedChoices []Choice
	for candidateIndex, candidate := range model.candidates {
		if _, rowSelected := model.selectedRows[candidateIndex]; rowSelected {
			selectedChoices = append(selectedChoices, candidate)
		}
	}
	return selectedChoices
}

// TerminalPrompter presents prompts through a bubbletea program on the
// controlling terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter constructs a TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// PickMany blocks until the user confirms or cancels a subset of candidates.
func (prompter *TerminalPrompter) PickMany(title string, candidates []Choice) ([]Choice, bool, error) {
	if len(candidates) == 0 {
		return nil, true, nil
	}

	program := tea.NewProgram(newPickerModel(title, candidates))
	finalModel, runError := program.Run()
	if runError != nil {
		return nil, false, runError
	}

	finishedModel, modelMatches := finalModel.(pickerModel)
	if !modelMatches || finishedModel.cancelled {
		return nil, false, nil
	}
	return finishedModel.selectedChoices(), finishedModel.confirmed, nil
}
