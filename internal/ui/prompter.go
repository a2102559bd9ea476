package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	confirmationSuffixConstant    = " [y/N] "
	affirmativeShortResponseValue = "y"
	affirmativeLongResponseValue  = "yes"
)

// IOConfirmationPrompter asks yes/no questions over plain reader/writer
// streams. Anything other than an affirmative answer declines.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided streams.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm presents the question with a [y/N] suffix and reads one response
// line. EOF counts as a decline, matching piped-input expectations.
func (prompter *IOConfirmationPrompter) Confirm(question string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := fmt.Fprint(prompter.writer, question, confirmationSuffixConstant); writeError != nil {
			return false, writeError
		}
	}

	responseLine, readError := prompter.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	normalizedResponse := strings.TrimSpace(strings.ToLower(responseLine))
	return normalizedResponse == affirmativeShortResponseValue || normalizedResponse == affirmativeLongResponseValue, nil
}
