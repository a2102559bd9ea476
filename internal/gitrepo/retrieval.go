package gitrepo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/clipdiff/clipdiff/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant = "git executor not configured"

	gitDiffSubcommandConstant        = "diff"
	gitCachedFlagConstant            = "--cached"
	gitNoIndexFlagConstant           = "--no-index"
	gitLogSubcommandConstant         = "log"
	gitShowSubcommandConstant        = "show"
	gitFetchSubcommandConstant       = "fetch"
	gitQuietFlagConstant             = "--quiet"
	gitRevParseSubcommandConstant    = "rev-parse"
	gitAbbrevRefFlagConstant         = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant  = "--symbolic-full-name"
	gitUpstreamReferenceConstant     = "@{u}"
	gitRemoteHeadReferenceConstant   = "origin/HEAD"
	gitHeadReferenceConstant         = "HEAD"
	gitRevListSubcommandConstant     = "rev-list"
	gitLeftRightFlagConstant         = "--left-right"
	gitCountFlagConstant             = "--count"
	gitForEachRefSubcommandConstant  = "for-each-ref"
	gitLocalBranchNamespaceConstant  = "refs/heads"
	gitForEachRefFormatFlagConstant  = "--format=%(refname:short)%09%(HEAD)%09%(upstream:short)"
	gitLSFilesSubcommandConstant     = "ls-files"
	gitOthersFlagConstant            = "--others"
	gitExcludeStandardFlagConstant   = "--exclude-standard"
	gitLogFormatFlagConstant         = "--pretty=format:%h%x09%ad%x09%an%x09%s"
	gitDateShortFlagConstant         = "--date=short"
	gitMaxCountFlagConstant          = "--max-count"
	gitShowEmptyFormatFlagConstant   = "--format="
	gitPathspecSeparatorConstant     = "--"
	gitEmptyDevicePathConstant       = "/dev/null"
	gitSymmetricDiffSeparatorConstant = "..."
	gitRangeFieldSeparatorConstant   = "\t"
	gitCurrentHeadMarkerConstant     = "*"
	lineSeparatorConstant            = "\n"
)

// ErrGitExecutorNotConfigured indicates the retriever was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor abstracts the execshell git surface needed for retrieval.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ChangeRetriever reads diff, log, and branch state from a repository.
type ChangeRetriever struct {
	executor GitExecutor
}

// NewChangeRetriever validates dependencies and constructs a ChangeRetriever.
func NewChangeRetriever(executor GitExecutor) (*ChangeRetriever, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &ChangeRetriever{executor: executor}, nil
}

// UnstagedDiff returns the working-tree diff against the index.
func (retriever *ChangeRetriever) UnstagedDiff(executionContext context.Context, repositoryPath string) RetrievalOutcome {
	return retriever.capture(executionContext, repositoryPath, gitDiffSubcommandConstant)
}

// StagedDiff returns the index diff against HEAD.
func (retriever *ChangeRetriever) StagedDiff(executionContext context.Context, repositoryPath string) RetrievalOutcome {
	return retriever.capture(executionContext, repositoryPath, gitDiffSubcommandConstant, gitCachedFlagConstant)
}

// AheadOfUpstreamDiff returns the diff of commits the current branch carries
// beyond its upstream. Without a resolvable upstream the outcome is empty.
func (retriever *ChangeRetriever) AheadOfUpstreamDiff(executionContext context.Context, repositoryPath string) RetrievalOutcome {
	upstreamName, upstreamFound := retriever.ResolveUpstream(executionContext, repositoryPath)
	if !upstreamFound {
		return RetrievalOutcome{State: OutcomeEmpty}
	}
	diffRange := upstreamName + gitSymmetricDiffSeparatorConstant + gitHeadReferenceConstant
	return retriever.capture(executionContext, repositoryPath, gitDiffSubcommandConstant, diffRange)
}

// ResolveUpstream returns the tracked upstream ref of the current branch,
// falling back to the remote's symbolic default-branch ref.
func (retriever *ChangeRetriever) ResolveUpstream(executionContext context.Context, repositoryPath string) (string, bool) {
	trackedOutcome := retriever.capture(executionContext, repositoryPath,
		gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitSymbolicFullNameFlagConstant, gitUpstreamReferenceConstant)
	if trackedOutcome.HasContent() {
		return strings.TrimSpace(trackedOutcome.Text), true
	}

	defaultOutcome := retriever.capture(executionContext, repositoryPath,
		gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitRemoteHeadReferenceConstant)
	if defaultOutcome.HasContent() {
		return strings.TrimSpace(defaultOutcome.Text), true
	}

	return "", false
}

// ListBranches enumerates local branches with upstream and divergence counts.
func (retriever *ChangeRetriever) ListBranches(executionContext context.Context, repositoryPath string) []Branch {
	listingOutcome := retriever.capture(executionContext, repositoryPath,
		gitForEachRefSubcommandConstant, gitForEachRefFormatFlagConstant, gitLocalBranchNamespaceConstant)
	if !listingOutcome.HasContent() {
		return nil
	}

	var branches []Branch
	for _, listingLine := range strings.Split(strings.TrimRight(listingOutcome.Text, lineSeparatorConstant), lineSeparatorConstant) {
		listingFields := strings.Split(listingLine, gitRangeFieldSeparatorConstant)
		if len(listingFields) < 3 {
			continue
		}

		branch := Branch{
			Name:          strings.TrimSpace(listingFields[0]),
			IsCurrentHead: strings.TrimSpace(listingFields[1]) == gitCurrentHeadMarkerConstant,
			UpstreamName:  strings.TrimSpace(listingFields[2]),
		}
		if len(branch.Name) == 0 {
			continue
		}
		if branch.HasUpstream() {
			branch.AheadCount, branch.BehindCount = retriever.aheadBehindCounts(executionContext, repositoryPath, branch.Name, branch.UpstreamName)
		}
		branches = append(branches, branch)
	}

	return branches
}

// CommitLog lists the newest commits of a branch, bounded by commitLimit.
func (retriever *ChangeRetriever) CommitLog(executionContext context.Context, repositoryPath string, branchName string, commitLimit int) []Commit {
	logOutcome := retriever.capture(executionContext, repositoryPath,
		gitLogSubcommandConstant, branchName,
		gitMaxCountFlagConstant, strconv.Itoa(commitLimit),
		gitLogFormatFlagConstant, gitDateShortFlagConstant)
	if !logOutcome.HasContent() {
		return nil
	}

	var commits []Commit
	for _, logLine := range strings.Split(strings.TrimRight(logOutcome.Text, lineSeparatorConstant), lineSeparatorConstant) {
		logFields := strings.SplitN(logLine, gitRangeFieldSeparatorConstant, 4)
		if len(logFields) < 4 {
			continue
		}
		commits = append(commits, Commit{
			ShortHash: strings.TrimSpace(logFields[0]),
			Date:      strings.TrimSpace(logFields[1]),
			Author:    strings.TrimSpace(logFields[2]),
			Subject:   strings.TrimSpace(logFields[3]),
		})
	}

	return commits
}

// CommitDiff returns the patch text of a single commit without its header.
func (retriever *ChangeRetriever) CommitDiff(executionContext context.Context, repositoryPath string, commitHash string) RetrievalOutcome {
	return retriever.capture(executionContext, repositoryPath,
		gitShowSubcommandConstant, gitShowEmptyFormatFlagConstant, commitHash)
}

// UntrackedFiles lists paths git knows nothing about, honoring ignore files.
func (retriever *ChangeRetriever) UntrackedFiles(executionContext context.Context, repositoryPath string) []string {
	listingOutcome := retriever.capture(executionContext, repositoryPath,
		gitLSFilesSubcommandConstant, gitOthersFlagConstant, gitExcludeStandardFlagConstant)
	if !listingOutcome.HasContent() {
		return nil
	}

	var untrackedPaths []string
	for _, listingLine := range strings.Split(strings.TrimRight(listingOutcome.Text, lineSeparatorConstant), lineSeparatorConstant) {
		trimmedPath := strings.TrimSpace(listingLine)
		if len(trimmedPath) > 0 {
			untrackedPaths = append(untrackedPaths, trimmedPath)
		}
	}
	return untrackedPaths
}

// UntrackedFileDiff renders an untracked file as a diff against the empty
// device, so new files appear in the report with their full content. git
// exits non-zero whenever --no-index finds differences; that exit code is
// output here, not failure.
func (retriever *ChangeRetriever) UntrackedFileDiff(executionContext context.Context, repositoryPath string, untrackedPath string) RetrievalOutcome {
	executionResult, executionError := retriever.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitNoIndexFlagConstant, gitPathspecSeparatorConstant, gitEmptyDevicePathConstant, untrackedPath},
		WorkingDirectory: repositoryPath,
	})

	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) && len(executionResult.StandardOutput) > 0 {
			return RetrievalOutcome{Text: executionResult.StandardOutput, State: OutcomeProduced}
		}
		return RetrievalOutcome{State: OutcomeExecutionFailed}
	}

	return RetrievalOutcome{Text: executionResult.StandardOutput, State: OutcomeProduced}
}

// FetchRemote refreshes remote tracking refs. Best effort: the caller
// ignores the result, so only the state is reported.
func (retriever *ChangeRetriever) FetchRemote(executionContext context.Context, repositoryPath string) OutcomeState {
	fetchOutcome := retriever.capture(executionContext, repositoryPath, gitFetchSubcommandConstant, gitQuietFlagConstant)
	return fetchOutcome.State
}

func (retriever *ChangeRetriever) aheadBehindCounts(executionContext context.Context, repositoryPath string, branchName string, upstreamName string) (int, int) {
	countRange := branchName + gitSymmetricDiffSeparatorConstant + upstreamName
	countOutcome := retriever.capture(executionContext, repositoryPath,
		gitRevListSubcommandConstant, gitLeftRightFlagConstant, gitCountFlagConstant, countRange)
	if !countOutcome.HasContent() {
		return 0, 0
	}

	countFields := strings.Fields(strings.TrimSpace(countOutcome.Text))
	if len(countFields) != 2 {
		return 0, 0
	}

	aheadCount, aheadError := strconv.Atoi(countFields[0])
	behindCount, behindError := strconv.Atoi(countFields[1])
	if aheadError != nil || behindError != nil {
		return 0, 0
	}
	return aheadCount, behindCount
}

// capture runs git and folds every failure into the outcome state.
func (retriever *ChangeRetriever) capture(executionContext context.Context, repositoryPath string, arguments ...string) RetrievalOutcome {
	executionResult, executionError := retriever.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})

	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return RetrievalOutcome{State: OutcomeEmpty}
		}
		return RetrievalOutcome{State: OutcomeExecutionFailed}
	}

	return RetrievalOutcome{Text: executionResult.StandardOutput, State: OutcomeProduced}
}
