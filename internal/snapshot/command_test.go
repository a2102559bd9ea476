package snapshot_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipdiff/clipdiff/internal/execshell"
	"github.com/clipdiff/clipdiff/internal/exitcode"
	"github.com/clipdiff/clipdiff/internal/snapshot"
)

const (
	gitMetadataDirectoryName = ".git"
	reportBannerLineConstant = "===== Repository Changes Report ====="
)

type stubClipboardExecutor struct {
	captured []byte
	err      error
}

func (executor *stubClipboardExecutor) ExecuteClipboardUtility(_ context.Context, _ execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.captured = details.StandardInput
	return execshell.ExecutionResult{}, executor.err
}

type scriptedConfirmationPrompter struct {
	answer    bool
	questions []string
}

func (prompter *scriptedConfirmationPrompter) Confirm(question string) (bool, error) {
	prompter.questions = append(prompter.questions, question)
	return prompter.answer, nil
}

func createRepositoryWorkspace(testInstance *testing.T, childNames ...string) string {
	workspaceRoot := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, gitMetadataDirectoryName), 0o755))
	for _, childName := range childNames {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, childName, gitMetadataDirectoryName), 0o755))
	}
	return workspaceRoot
}

func runSnapshotCommand(testInstance *testing.T, builder *snapshot.CommandBuilder, arguments ...string) (string, error) {
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestSnapshotCommandPrintsReportToStdout(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance, "api")
	executor := newWorkspaceExecutor()
	executor.script(filepath.Join(workspaceRoot, "api"), "diff", childUnstagedDiffConstant)

	builder := &snapshot.CommandBuilder{
		GitExecutor:         executor,
		ClipboardExecutor:   &stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    workspaceRoot,
	}

	commandOutput, executionError := runSnapshotCommand(testInstance, builder, "--stdout")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, reportBannerLineConstant)
	require.Contains(testInstance, commandOutput, "diff --git a/api/src/app.ts b/api/src/app.ts")
	require.NotContains(testInstance, commandOutput, "node_modules")
}

func TestSnapshotCommandDeclinedConfirmationExitsDegraded(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance)
	prompter := &scriptedConfirmationPrompter{answer: false}

	builder := &snapshot.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   &stubClipboardExecutor{},
		Prompter:            prompter,
		InteractiveDetector: func() bool { return true },
		WorkingDirectory:    workspaceRoot,
	}

	_, executionError := runSnapshotCommand(testInstance, builder)
	var codedError *exitcode.Error
	require.ErrorAs(testInstance, executionError, &codedError)
	require.Equal(testInstance, exitcode.StatusDegraded, codedError.Status)
	require.Len(testInstance, prompter.questions, 1)
}

func TestSnapshotCommandAcceptedConfirmationProceeds(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance)
	prompter := &scriptedConfirmationPrompter{answer: true}

	builder := &snapshot.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   &stubClipboardExecutor{},
		Prompter:            prompter,
		InteractiveDetector: func() bool { return true },
		WorkingDirectory:    workspaceRoot,
	}

	commandOutput, executionError := runSnapshotCommand(testInstance, builder, "--stdout")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, reportBannerLineConstant)
	require.Len(testInstance, prompter.questions, 1)
}

func TestSnapshotCommandAssumeYesSkipsConfirmation(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance)
	prompter := &scriptedConfirmationPrompter{answer: false}

	builder := &snapshot.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   &stubClipboardExecutor{},
		Prompter:            prompter,
		InteractiveDetector: func() bool { return true },
		WorkingDirectory:    workspaceRoot,
	}

	_, executionError := runSnapshotCommand(testInstance, builder, "--yes", "--stdout")
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, prompter.questions)
}

func TestSnapshotCommandWithoutRepositoriesFailsFatally(testInstance *testing.T) {
	builder := &snapshot.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   &stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    testInstance.TempDir(),
	}

	_, executionError := runSnapshotCommand(testInstance, builder)
	var codedError *exitcode.Error
	require.ErrorAs(testInstance, executionError, &codedError)
	require.Equal(testInstance, exitcode.StatusFatalPrecondition, codedError.Status)
}

func TestSnapshotCommandExcludeFlagSkipsChildren(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance, "api", "web")
	executor := newWorkspaceExecutor()

	builder := &snapshot.CommandBuilder{
		GitExecutor:         executor,
		ClipboardExecutor:   &stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    workspaceRoot,
	}

	commandOutput, executionError := runSnapshotCommand(testInstance, builder, "--stdout", "--exclude", "^web$")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "## api (api)")
	require.NotContains(testInstance, commandOutput, "## web (web)")
}
