package history_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipdiff/clipdiff/internal/execshell"
	"github.com/clipdiff/clipdiff/internal/exitcode"
	"github.com/clipdiff/clipdiff/internal/history"
)

const (
	gitMetadataDirectoryName = ".git"
	reportBannerLineConstant = "===== Repository Changes Report ====="
)

type stubClipboardExecutor struct{}

func (stubClipboardExecutor) ExecuteClipboardUtility(_ context.Context, _ execshell.CommandName, _ execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func createRepositoryWorkspace(testInstance *testing.T, childNames ...string) string {
	workspaceRoot := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, gitMetadataDirectoryName), 0o755))
	for _, childName := range childNames {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, childName, gitMetadataDirectoryName), 0o755))
	}
	return workspaceRoot
}

func runHistoryCommand(testInstance *testing.T, builder *history.CommandBuilder, arguments ...string) (string, error) {
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestHistoryCommandHeadlessFlowPrintsReport(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance, "api")
	executor := newWorkspaceExecutor()
	childPath := filepath.Join(workspaceRoot, "api")
	executor.script(childPath, branchListingInvocation, "main\t*\torigin/main\n")
	executor.script(childPath, "rev-list --left-right --count main...origin/main", "1\t0\n")
	executor.script(childPath, commitLogInvocation, "abc123\t2026-08-27\tJordan\tFix parser\n")
	executor.script(childPath, commitShowInvocation, commitDiffConstant)

	builder := &history.CommandBuilder{
		GitExecutor:         executor,
		ClipboardExecutor:   stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    workspaceRoot,
	}

	commandOutput, executionError := runHistoryCommand(testInstance, builder,
		"--stdout", "--repos", "api", "--branches", "main", "--commits", "abc123")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, reportBannerLineConstant)
	require.Contains(testInstance, commandOutput, "Commit abc123 (2026-08-27, Jordan): Fix parser")
	require.Contains(testInstance, commandOutput, "diff --git a/api/src/app.ts b/api/src/app.ts")
}

func TestHistoryCommandWithoutSelectionArgumentsFailsFatally(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance, "api")

	builder := &history.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    workspaceRoot,
	}

	_, executionError := runHistoryCommand(testInstance, builder, "--stdout")
	var codedError *exitcode.Error
	require.ErrorAs(testInstance, executionError, &codedError)
	require.Equal(testInstance, exitcode.StatusFatalPrecondition, codedError.Status)
}

func TestHistoryCommandLimitFlagBoundsCommitLog(testInstance *testing.T) {
	workspaceRoot := createRepositoryWorkspace(testInstance, "api")
	executor := newWorkspaceExecutor()
	childPath := filepath.Join(workspaceRoot, "api")
	executor.script(childPath, branchListingInvocation, "main\t*\t\n")

	builder := &history.CommandBuilder{
		GitExecutor:         executor,
		ClipboardExecutor:   stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    workspaceRoot,
	}

	_, executionError := runHistoryCommand(testInstance, builder,
		"--stdout", "--limit", "2", "--repos", "api", "--branches", "main", "--commits", "abc123")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, executor.recordedCalls(),
		invocationKey(childPath, "log main --max-count 2 --pretty=format:%h%x09%ad%x09%an%x09%s --date=short"))
}

func TestHistoryCommandWithoutRepositoriesFailsFatally(testInstance *testing.T) {
	builder := &history.CommandBuilder{
		GitExecutor:         newWorkspaceExecutor(),
		ClipboardExecutor:   stubClipboardExecutor{},
		InteractiveDetector: func() bool { return false },
		WorkingDirectory:    testInstance.TempDir(),
	}

	_, executionError := runHistoryCommand(testInstance, builder, "--stdout")
	var codedError *exitcode.Error
	require.ErrorAs(testInstance, executionError, &codedError)
	require.Equal(testInstance, exitcode.StatusFatalPrecondition, codedError.Status)
}
