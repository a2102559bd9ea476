package selection_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/clipdiff/clipdiff/internal/selection"
)

const (
	testHeadlessMatchCaseNameConstant     = "headless_matches_preserve_order"
	testHeadlessNoMatchCaseNameConstant   = "headless_no_matches_yield_empty"
	testHeadlessWhitespaceCaseConstant    = "headless_whitespace_tolerated"
	testInteractiveConfirmCaseConstant    = "interactive_confirmation"
	testInteractiveCancelCaseConstant     = "interactive_cancellation"
	testNonInteractiveFatalCaseConstant   = "non_interactive_without_argument"
	testPromptTitleConstant               = "Select repositories"
)

var testCandidates = []selection.Choice{
	{Identifier: "root", Label: "root (.)"},
	{Identifier: "api", Label: "api"},
	{Identifier: "web", Label: "web"},
}

type stubPrompter struct {
	selected  []selection.Choice
	confirmed bool
	err       error
	titles    []string
}

func (prompter *stubPrompter) PickMany(title string, candidates []selection.Choice) ([]selection.Choice, bool, error) {
	prompter.titles = append(prompter.titles, title)
	return prompter.selected, prompter.confirmed, prompter.err
}

func TestFilterByIdentifiers(testInstance *testing.T) {
	testCases := []struct {
		name                string
		commaSeparatedList  string
		expectedIdentifiers []string
	}{
		{
			name:                testHeadlessMatchCaseNameConstant,
			commaSeparatedList:  "web,api",
			expectedIdentifiers: []string{"api", "web"},
		},
		{
			name:                testHeadlessNoMatchCaseNameConstant,
			commaSeparatedList:  "missing,unknown",
			expectedIdentifiers: nil,
		},
		{
			name:                testHeadlessWhitespaceCaseConstant,
			commaSeparatedList:  " api , root ",
			expectedIdentifiers: []string{"root", "api"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			selectedChoices := selection.FilterByIdentifiers(testCandidates, testCase.commaSeparatedList)

			var selectedIdentifiers []string
			for _, selectedChoice := range selectedChoices {
				selectedIdentifiers = append(selectedIdentifiers, selectedChoice.Identifier)
			}
			require.Equal(testInstance, testCase.expectedIdentifiers, selectedIdentifiers)
		})
	}
}

func TestEngineSelectDispatch(testInstance *testing.T) {
	testInstance.Run(testInteractiveConfirmCaseConstant, func(testInstance *testing.T) {
		prompter := &stubPrompter{selected: testCandidates[:1], confirmed: true}
		engine := selection.NewEngine(prompter, true)

		selectedChoices, selectionError := engine.Select(selection.Request{Title: testPromptTitleConstant, Candidates: testCandidates})
		require.NoError(testInstance, selectionError)
		require.Equal(testInstance, testCandidates[:1], selectedChoices)
		require.Equal(testInstance, []string{testPromptTitleConstant}, prompter.titles)
	})

	testInstance.Run(testInteractiveCancelCaseConstant, func(testInstance *testing.T) {
		prompter := &stubPrompter{confirmed: false}
		engine := selection.NewEngine(prompter, true)

		selectedChoices, selectionError := engine.Select(selection.Request{Title: testPromptTitleConstant, Candidates: testCandidates})
		require.NoError(testInstance, selectionError)
		require.Empty(testInstance, selectedChoices)
	})

	testInstance.Run(testNonInteractiveFatalCaseConstant, func(testInstance *testing.T) {
		engine := selection.NewEngine(nil, false)

		selectedChoices, selectionError := engine.Select(selection.Request{Title: testPromptTitleConstant, Candidates: testCandidates})
		require.ErrorIs(testInstance, selectionError, selection.ErrSelectionRequired)
		require.Empty(testInstance, selectedChoices)
	})

	testInstance.Run("headless_argument_bypasses_prompt", func(testInstance *testing.T) {
		prompter := &stubPrompter{err: errors.New("prompt must not run")}
		engine := selection.NewEngine(prompter, true)

		selectedChoices, selectionError := engine.Select(selection.Request{
			Candidates:       testCandidates,
			HeadlessList:     "api",
			HeadlessProvided: true,
		})
		require.NoError(testInstance, selectionError)
		require.Len(testInstance, selectedChoices, 1)
		require.Empty(testInstance, prompter.titles)
	})
}

func TestPickerModelKeyHandling(testInstance *testing.T) {
	pressKey := func(model tea.Model, key string) tea.Model {
		var keyMessage tea.Msg
		switch key {
		case "space":
			keyMessage = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "enter":
			keyMessage = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			keyMessage = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			keyMessage = tea.KeyMsg{Type: tea.KeyDown}
		default:
			keyMessage = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		updatedModel, _ := model.Update(keyMessage)
		return updatedModel
	}

	testInstance.Run("toggle_and_confirm", func(testInstance *testing.T) {
		var model tea.Model = selection.NewPickerModelForTest(testPromptTitleConstant, testCandidates)
		model = pressKey(model, "space")
		model = pressKey(model, "down")
		model = pressKey(model, "space")
		model = pressKey(model, "enter")

		selectedChoices, confirmed := selection.PickerModelResultForTest(model)
		require.True(testInstance, confirmed)
		require.Equal(testInstance, []selection.Choice{testCandidates[0], testCandidates[1]}, selectedChoices)
	})

	testInstance.Run("cancel_discards_selection", func(testInstance *testing.T) {
		var model tea.Model = selection.NewPickerModelForTest(testPromptTitleConstant, testCandidates)
		model = pressKey(model, "space")
		model = pressKey(model, "esc")

		selectedChoices, confirmed := selection.PickerModelResultForTest(model)
		require.False(testInstance, confirmed)
		require.Empty(testInstance, selectedChoices)
	})

	testInstance.Run("select_all_shortcut", func(testInstance *testing.T) {
		var model tea.Model = selection.NewPickerModelForTest(testPromptTitleConstant, testCandidates)
		model = pressKey(model, "a")
		model = pressKey(model, "enter")

		selectedChoices, confirmed := selection.PickerModelResultForTest(model)
		require.True(testInstance, confirmed)
		require.Len(testInstance, selectedChoices, len(testCandidates))
	})
}
