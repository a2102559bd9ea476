// Package ui renders command lifecycle events in a human-readable form when
// console logging is enabled.
package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipdiff/clipdiff/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	commandArgumentsJoinSeparatorConstant          = " "
	standardErrorSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant                  = "unknown error"
	emptyStringConstant                            = ""
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildCompletionMessage formats the message describing a finished command.
func (formatter CommandEventFormatter) BuildCompletionMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	if result.ExitCode == 0 {
		return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.formatCommandLabel(command))
	}

	baseMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	return baseMessage + standardErrorSuffix
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return commandLabel + formatter.formatWorkingDirectorySuffix(command)
}

func (formatter CommandEventFormatter) formatWorkingDirectorySuffix(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandEventFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// LoggerCommandObserver forwards formatted command events to a zap logger.
type LoggerCommandObserver struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewLoggerCommandObserver constructs an observer writing through the supplied logger.
func NewLoggerCommandObserver(logger *zap.Logger) *LoggerCommandObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerCommandObserver{logger: logger}
}

// CommandStarted logs the start of a command at debug level.
func (observer *LoggerCommandObserver) CommandStarted(command execshell.ShellCommand) {
	observer.logger.Debug(observer.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs the completion of a command at debug level.
func (observer *LoggerCommandObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observer.logger.Debug(observer.formatter.BuildCompletionMessage(command, result))
}

// CommandExecutionFailed logs a launch failure at debug level.
func (observer *LoggerCommandObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observer.logger.Debug(observer.formatter.BuildExecutionFailureMessage(command, failure))
}
