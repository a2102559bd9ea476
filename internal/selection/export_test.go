package selection

import tea "github.com/charmbracelet/bubbletea"

// NewPickerModelForTest exposes the prompt model to package tests.
func NewPickerModelForTest(title string, candidates []Choice) tea.Model {
	return newPickerModel(title, candidates)
}

// PickerModelResultForTest reads the final selection state of a prompt model.
func PickerModelResultForTest(model tea.Model) ([]Choice, bool) {
	finishedModel, modelMatches := model.(pickerModel)
	if !modelMatches || finishedModel.cancelled {
		return nil, false
	}
	return finishedModel.selectedChoices(), finishedModel.confirmed
}
