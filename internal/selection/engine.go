// Package selection resolves which repositories, branches, and commits a
// report run includes, either from explicit comma-list arguments (headless)
// or through an interactive multi-select prompt.
package selection

import (
	"errors"
	"strings"
)

const (
	selectionRequiredMessageConstant  = "selection required: supply an explicit argument when no interactive terminal is available"
	prompterNotConfiguredMessage      = "prompter not configured"
	headlessListSeparatorConstant     = ","
)

// ErrSelectionRequired indicates a non-interactive run reached a selection
// stage without an explicit argument. Callers treat this as fatal.
var ErrSelectionRequired = errors.New(selectionRequiredMessageConstant)

// ErrPrompterNotConfigured indicates the engine was built without a prompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessage)

// Choice is one selectable item: a stable identifier plus a display label.
type Choice struct {
	Identifier string
	Label      string
}

// Prompter presents candidates and blocks until the user confirms a subset.
// A cancelled prompt reports confirmed=false with no selection.
type Prompter interface {
	PickMany(title string, candidates []Choice) (selected []Choice, confirmed bool, err error)
}

// Request describes one selection stage.
type Request struct {
	// Title labels the interactive prompt.
	Title string
	// Candidates in presentation order.
	Candidates []Choice
	// HeadlessList is the raw comma-separated identifier argument.
	HeadlessList string
	// HeadlessProvided distinguishes an empty argument from an absent one.
	HeadlessProvided bool
}

// Engine dispatches between headless filtering and interactive prompting.
type Engine struct {
	prompter    Prompter
	interactive bool
}

// NewEngine constructs a selection engine. The prompter may be nil for runs
// that are guaranteed headless.
func NewEngine(prompter Prompter, interactive bool) *Engine {
	return &Engine{prompter: prompter, interactive: interactive}
}

// Select resolves one selection stage. Cancellation of an interactive prompt
// yields an empty selection without an error; a missing argument in a
// non-interactive run yields ErrSelectionRequired.
func (engine *Engine) Select(request Request) ([]Choice, error) {
	if request.HeadlessProvided {
		return FilterByIdentifiers(request.Candidates, request.HeadlessList), nil
	}

	if !engine.interactive {
		return nil, ErrSelectionRequired
	}

	if engine.prompter == nil {
		return nil, ErrPrompterNotConfigured
	}

	selectedChoices, confirmed, promptError := engine.prompter.PickMany(request.Title, request.Candidates)
	if promptError != nil {
		return nil, promptError
	}
	if !confirmed {
		return nil, nil
	}
	return selectedChoices, nil
}

// FilterByIdentifiers keeps candidates whose identifier appears in the
// comma-separated list, preserving candidate order. Unknown identifiers
// select nothing.
func FilterByIdentifiers(candidates []Choice, commaSeparatedList string) []Choice {
	requestedIdentifiers := map[string]struct{}{}
	for _, rawIdentifier := range strings.Split(commaSeparatedList, headlessListSeparatorConstant) {
		trimmedIdentifier := strings.TrimSpace(rawIdentifier)
		if len(trimmedIdentifier) > 0 {
			requestedIdentifiers[trimmedIdentifier] = struct{}{}
		}
	}

	var selectedChoices []Choice
	for _, candidate := range candidates {
		if _, requested := requestedIdentifiers[candidate.Identifier]; requested {
			selectedChoices = append(selectedChoices, candidate)
		}
	}
	return selectedChoices
}
