package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipdiff/clipdiff/internal/delivery"
	"github.com/clipdiff/clipdiff/internal/discovery"
	"github.com/clipdiff/clipdiff/internal/execshell"
	"github.com/clipdiff/clipdiff/internal/exitcode"
	"github.com/clipdiff/clipdiff/internal/gitrepo"
	"github.com/clipdiff/clipdiff/internal/report"
	"github.com/clipdiff/clipdiff/internal/selection"
	"github.com/clipdiff/clipdiff/internal/ui"
)

const (
	commandUseConstant              = "history"
	commandShortDescriptionConstant = "Copy selected historical commits across repositories to the clipboard"
	commandLongDescriptionConstant  = "history walks three selection stages: repositories, branches within each repository, and recent commits on each branch. Selected commit patches are filtered, rewritten to root-relative paths, and placed on the clipboard. Without a terminal, supply --repos, --branches, and --commits explicitly."

	assumeYesFlagNameConstant  = "yes"
	assumeYesFlagUsageConstant = "Skip the interactive confirmation before copying"
	reposFlagNameConstant      = "repos"
	reposFlagUsageConstant     = "Comma-separated repository names to include without prompting"
	branchesFlagNameConstant   = "branches"
	branchesFlagUsageConstant  = "Comma-separated branch names to include without prompting"
	commitsFlagNameConstant    = "commits"
	commitsFlagUsageConstant   = "Comma-separated commit hashes to include without prompting"
	limitFlagNameConstant      = "limit"
	limitFlagUsageConstant     = "Number of recent commits offered per branch"
	excludeFlagNameConstant    = "exclude"
	excludeFlagUsageConstant   = "Regular expression of child directory names to skip"
	stdoutFlagNameConstant     = "stdout"
	stdoutFlagUsageConstant    = "Print the report to standard output instead of the clipboard"
	quietFlagNameConstant      = "quiet"
	quietFlagUsageConstant     = "Suppress the success status line"

	workingDirectoryDefaultConstant    = "."
	confirmationQuestionTemplate       = "Copy history report for %d repositories to the clipboard?"
	confirmationDeclinedReasonConstant = "report delivery declined"
	successStatusTemplateConstant      = "Report copied to clipboard (%d sections).\n"
)

// ConfirmationPrompter asks the user to approve delivery before copying.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
}

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the history command. The executor, prompter, and
// interactivity fields exist for tests; production wiring leaves them nil
// and receives OS-backed defaults.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	GitExecutor           gitrepo.GitExecutor
	ClipboardExecutor     delivery.UtilityExecutor
	SelectionPrompter     selection.Prompter
	Prompter              ConfirmationPrompter
	InteractiveDetector   func() bool
	WorkingDirectory      string
}

// Build constructs the history cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Bool(assumeYesFlagNameConstant, false, assumeYesFlagUsageConstant)
	command.Flags().String(reposFlagNameConstant, "", reposFlagUsageConstant)
	command.Flags().String(branchesFlagNameConstant, "", branchesFlagUsageConstant)
	command.Flags().String(commitsFlagNameConstant, "", commitsFlagUsageConstant)
	command.Flags().Int(limitFlagNameConstant, defaultCommitLimitConstant, limitFlagUsageConstant)
	command.Flags().String(excludeFlagNameConstant, "", excludeFlagUsageConstant)
	command.Flags().Bool(stdoutFlagNameConstant, false, stdoutFlagUsageConstant)
	command.Flags().Bool(quietFlagNameConstant, false, quietFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration(command)
	options := builder.resolveOptions(command, configuration)
	logger := builder.resolveLogger()
	interactive := builder.interactive()

	repositories, discoveryError := builder.discoverRepositories(configuration)
	if discoveryError != nil {
		if errors.Is(discoveryError, discovery.ErrNoRepositoriesFound) {
			return exitcode.NewFatalPrecondition(discoveryError.Error())
		}
		return discoveryError
	}

	gitExecutor, clipboardExecutor, executorError := builder.resolveExecutors(logger)
	if executorError != nil {
		return executorError
	}

	retriever, retrieverError := gitrepo.NewChangeRetriever(gitExecutor)
	if retrieverError != nil {
		return retrieverError
	}

	service, serviceError := NewService(Dependencies{
		Retriever: retriever,
		Engine:    selection.NewEngine(builder.resolveSelectionPrompter(interactive), interactive),
		Logger:    logger,
	})
	if serviceError != nil {
		return serviceError
	}

	sections, collectionError := service.CollectSections(command.Context(), repositories, options)
	if collectionError != nil {
		if errors.Is(collectionError, selection.ErrSelectionRequired) {
			return exitcode.NewFatalPrecondition(collectionError.Error())
		}
		return collectionError
	}
	reportText := report.Render(sections)

	if !configuration.AssumeYes && interactive {
		confirmed, confirmationError := builder.resolvePrompter(command).Confirm(fmt.Sprintf(confirmationQuestionTemplate, len(sections)))
		if confirmationError != nil {
			return confirmationError
		}
		if !confirmed {
			return exitcode.NewDegraded(confirmationDeclinedReasonConstant)
		}
	}

	if configuration.PrintToStdout {
		fmt.Fprint(command.OutOrStdout(), reportText)
		return nil
	}

	sink, sinkError := delivery.NewSink(logger, delivery.DefaultStrategies(clipboardExecutor), command.OutOrStdout())
	if sinkError != nil {
		return sinkError
	}

	deliveryResult := sink.Deliver(command.Context(), reportText)
	if deliveryResult.PrintedFallback {
		return exitcode.NewDegraded("")
	}

	if !configuration.Quiet {
		fmt.Fprintf(command.OutOrStdout(), successStatusTemplateConstant, len(sections))
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command != nil {
		commandFlags := command.Flags()
		if commandFlags.Changed(assumeYesFlagNameConstant) {
			configuration.AssumeYes, _ = commandFlags.GetBool(assumeYesFlagNameConstant)
		}
		if commandFlags.Changed(limitFlagNameConstant) {
			configuration.CommitLimit, _ = commandFlags.GetInt(limitFlagNameConstant)
		}
		if commandFlags.Changed(excludeFlagNameConstant) {
			flagValue, _ := commandFlags.GetString(excludeFlagNameConstant)
			configuration.ExclusionPattern = strings.TrimSpace(flagValue)
		}
		if commandFlags.Changed(stdoutFlagNameConstant) {
			configuration.PrintToStdout, _ = commandFlags.GetBool(stdoutFlagNameConstant)
		}
		if commandFlags.Changed(quietFlagNameConstant) {
			configuration.Quiet, _ = commandFlags.GetBool(quietFlagNameConstant)
		}
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveOptions(command *cobra.Command, configuration CommandConfiguration) Options {
	options := Options{CommitLimit: configuration.CommitLimit}
	if command == nil {
		return options
	}

	commandFlags := command.Flags()
	if commandFlags.Changed(reposFlagNameConstant) {
		options.RepositoryList, _ = commandFlags.GetString(reposFlagNameConstant)
		options.RepositoryListProvided = true
	}
	if commandFlags.Changed(branchesFlagNameConstant) {
		options.BranchList, _ = commandFlags.GetString(branchesFlagNameConstant)
		options.BranchListProvided = true
	}
	if commandFlags.Changed(commitsFlagNameConstant) {
		options.CommitList, _ = commandFlags.GetString(commitsFlagNameConstant)
		options.CommitListProvided = true
	}
	return options
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) discoverRepositories(configuration CommandConfiguration) ([]discovery.Repository, error) {
	scanner, scannerError := discovery.NewScanner(configuration.ExclusionPattern)
	if scannerError != nil {
		return nil, scannerError
	}

	workingDirectory := builder.WorkingDirectory
	if len(workingDirectory) == 0 {
		workingDirectory = workingDirectoryDefaultConstant
	}
	return scanner.Scan(workingDirectory)
}

func (builder *CommandBuilder) resolveExecutors(logger *zap.Logger) (gitrepo.GitExecutor, delivery.UtilityExecutor, error) {
	if builder.GitExecutor != nil && builder.ClipboardExecutor != nil {
		return builder.GitExecutor, builder.ClipboardExecutor, nil
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, nil, executorError
	}
	shellExecutor.SetObserver(ui.NewLoggerCommandObserver(logger))

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		gitExecutor = shellExecutor
	}
	clipboardExecutor := builder.ClipboardExecutor
	if clipboardExecutor == nil {
		clipboardExecutor = shellExecutor
	}
	return gitExecutor, clipboardExecutor, nil
}

func (builder *CommandBuilder) resolveSelectionPrompter(interactive bool) selection.Prompter {
	if builder.SelectionPrompter != nil {
		return builder.SelectionPrompter
	}
	if !interactive {
		return nil
	}
	return selection.NewTerminalPrompter()
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return ui.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) interactive() bool {
	if builder.InteractiveDetector != nil {
		return builder.InteractiveDetector()
	}
	return selection.StandardStreamsInteractive()
}
