package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipdiff/clipdiff/internal/difftext"
	"github.com/clipdiff/clipdiff/internal/discovery"
	"github.com/clipdiff/clipdiff/internal/gitrepo"
	"github.com/clipdiff/clipdiff/internal/report"
	"github.com/clipdiff/clipdiff/internal/selection"
)

const (
	retrieverMissingMessageConstant = "change retriever not configured"
	engineMissingMessageConstant    = "selection engine not configured"

	repositoryPromptTitleConstant   = "Select repositories"
	branchPromptTitleTemplate       = "Select branches in %s"
	commitPromptTitleTemplate       = "Select commits on %s (%s)"
	branchCurrentMarkerConstant     = "* "
	branchNoUpstreamLabelConstant   = "no upstream"
	branchDivergenceLabelTemplate   = "%s, ahead %d, behind %d"
	commitChoiceLabelTemplate       = "%s  %s  %s  %s"
	repositoryChoiceLabelTemplate   = "%s (%s)"

	commitsSelectedLogMessageConstant = "commits selected"
	logFieldRepositoryConstant        = "repository"
	logFieldCommitCountConstant       = "commit_count"
)

// ErrRetrieverNotConfigured indicates the service was built without a retriever.
var ErrRetrieverNotConfigured = errors.New(retrieverMissingMessageConstant)

// ErrSelectionEngineNotConfigured indicates the service was built without an engine.
var ErrSelectionEngineNotConfigured = errors.New(engineMissingMessageConstant)

// Options carries the headless selection arguments of one history run.
type Options struct {
	RepositoryList         string
	RepositoryListProvided bool
	BranchList             string
	BranchListProvided     bool
	CommitList             string
	CommitListProvided     bool
	CommitLimit            int
}

// Dependencies enumerates external collaborators for history collection.
type Dependencies struct {
	Retriever *gitrepo.ChangeRetriever
	Engine    *selection.Engine
	Logger    *zap.Logger
}

// Service walks the repository, branch, and commit selection stages and
// assembles the chosen commits into report sections.
type Service struct {
	retriever *gitrepo.ChangeRetriever
	engine    *selection.Engine
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Retriever == nil {
		return nil, ErrRetrieverNotConfigured
	}
	if dependencies.Engine == nil {
		return nil, ErrSelectionEngineNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: dependencies.Retriever, engine: dependencies.Engine, logger: logger}, nil
}

// CollectSections synchronizes remotes, resolves the three selection stages,
// and returns one section per selected repository. A cancelled prompt at any
// stage narrows the report instead of aborting it.
func (service *Service) CollectSections(executionContext context.Context, repositories []discovery.Repository, options Options) ([]report.Section, error) {
	repositoryPaths := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		repositoryPaths = append(repositoryPaths, repository.Path)
	}
	gitrepo.FetchAllRemotes(executionContext, service.retriever, repositoryPaths)

	selectedRepositories, repositorySelectionError := service.selectRepositories(repositories, options)
	if repositorySelectionError != nil {
		return nil, repositorySelectionError
	}

	var sections []report.Section
	for _, repository := range selectedRepositories {
		section, sectionError := service.collectRepositorySection(executionContext, repository, options)
		if sectionError != nil {
			return nil, sectionError
		}
		service.logger.Debug(
			commitsSelectedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.Int(logFieldCommitCountConstant, len(section.Subsections)),
		)
		sections = append(sections, section)
	}
	return sections, nil
}

func (service *Service) selectRepositories(repositories []discovery.Repository, options Options) ([]discovery.Repository, error) {
	repositoriesByName := map[string]discovery.Repository{}
	candidates := make([]selection.Choice, 0, len(repositories))
	for _, repository := range repositories {
		repositoriesByName[repository.Name] = repository
		candidates = append(candidates, selection.Choice{
			Identifier: repository.Name,
			Label:      fmt.Sprintf(repositoryChoiceLabelTemplate, repository.Name, displayDirectory(repository)),
		})
	}

	selectedChoices, selectionError := service.engine.Select(selection.Request{
		Title:            repositoryPromptTitleConstant,
		Candidates:       candidates,
		HeadlessList:     options.RepositoryList,
		HeadlessProvided: options.RepositoryListProvided,
	})
	if selectionError != nil {
		return nil, selectionError
	}

	selectedRepositories := make([]discovery.Repository, 0, len(selectedChoices))
	for _, selectedChoice := range selectedChoices {
		selectedRepositories = append(selectedRepositories, repositoriesByName[selectedChoice.Identifier])
	}
	return selectedRepositories, nil
}

func (service *Service) collectRepositorySection(executionContext context.Context, repository discovery.Repository, options Options) (report.Section, error) {
	section := report.Section{
		RepositoryName:    repository.Name,
		RelativeDirectory: repository.RelativeDirectory,
	}

	selectedBranches, branchSelectionError := service.selectBranches(executionContext, repository, options)
	if branchSelectionError != nil {
		return report.Section{}, branchSelectionError
	}

	includedCommitHashes := map[string]struct{}{}
	for _, branch := range selectedBranches {
		selectedCommits, commitSelectionError := service.selectCommits(executionContext, repository, branch, options)
		if commitSelectionError != nil {
			return report.Section{}, commitSelectionError
		}

		for _, commit := range selectedCommits {
			// The same commit can surface through several branches.
			if _, alreadyIncluded := includedCommitHashes[commit.ShortHash]; alreadyIncluded {
				continue
			}
			includedCommitHashes[commit.ShortHash] = struct{}{}

			commitText := service.commitDiffText(executionContext, repository, commit.ShortHash)
			section.AppendSubsection(report.CommitSubsectionLabel(commit.ShortHash, commit.Date, commit.Author, commit.Subject), commitText)
		}
	}

	return section, nil
}

func (service *Service) selectBranches(executionContext context.Context, repository discovery.Repository, options Options) ([]gitrepo.Branch, error) {
	branches := service.retriever.ListBranches(executionContext, repository.Path)
	branchesByName := map[string]gitrepo.Branch{}
	candidates := make([]selection.Choice, 0, len(branches))
	for _, branch := range branches {
		branchesByName[branch.Name] = branch
		candidates = append(candidates, selection.Choice{
			Identifier: branch.Name,
			Label:      branchChoiceLabel(branch),
		})
	}

	selectedChoices, selectionError := service.engine.Select(selection.Request{
		Title:            fmt.Sprintf(branchPromptTitleTemplate, repository.Name),
		Candidates:       candidates,
		HeadlessList:     options.BranchList,
		HeadlessProvided: options.BranchListProvided,
	})
	if selectionError != nil {
		return nil, selectionError
	}

	selectedBranches := make([]gitrepo.Branch, 0, len(selectedChoices))
	for _, selectedChoice := range selectedChoices {
		selectedBranches = append(selectedBranches, branchesByName[selectedChoice.Identifier])
	}
	return selectedBranches, nil
}

func (service *Service) selectCommits(executionContext context.Context, repository discovery.Repository, branch gitrepo.Branch, options Options) ([]gitrepo.Commit, error) {
	commits := service.retriever.CommitLog(executionContext, repository.Path, branch.Name, options.CommitLimit)
	commitsByHash := map[string]gitrepo.Commit{}
	candidates := make([]selection.Choice, 0, len(commits))
	for _, commit := range commits {
		commitsByHash[commit.ShortHash] = commit
		candidates = append(candidates, selection.Choice{
			Identifier: commit.ShortHash,
			Label:      fmt.Sprintf(commitChoiceLabelTemplate, commit.ShortHash, commit.Date, commit.Author, commit.Subject),
		})
	}

	selectedChoices, selectionError := service.engine.Select(selection.Request{
		Title:            fmt.Sprintf(commitPromptTitleTemplate, branch.Name, repository.Name),
		Candidates:       candidates,
		HeadlessList:     options.CommitList,
		HeadlessProvided: options.CommitListProvided,
	})
	if selectionError != nil {
		return nil, selectionError
	}

	selectedCommits := make([]gitrepo.Commit, 0, len(selectedChoices))
	for _, selectedChoice := range selectedChoices {
		selectedCommits = append(selectedCommits, commitsByHash[selectedChoice.Identifier])
	}
	return selectedCommits, nil
}

// commitDiffText filters and rewrites one commit's patch. A commit whose
// every file is ignorable yields blank text, which drops its subsection.
func (service *Service) commitDiffText(executionContext context.Context, repository discovery.Repository, commitHash string) string {
	diffOutcome := service.retriever.CommitDiff(executionContext, repository.Path, commitHash)
	filteredText := difftext.FilterIgnoredBlocks(diffOutcome.Text)
	return difftext.RewritePaths(filteredText, repository.PathPrefix())
}

func branchChoiceLabel(branch gitrepo.Branch) string {
	divergenceLabel := branchNoUpstreamLabelConstant
	if branch.HasUpstream() {
		divergenceLabel = fmt.Sprintf(branchDivergenceLabelTemplate, branch.UpstreamName, branch.AheadCount, branch.BehindCount)
	}

	var labelBuilder strings.Builder
	if branch.IsCurrentHead {
		labelBuilder.WriteString(branchCurrentMarkerConstant)
	}
	labelBuilder.WriteString(branch.Name)
	labelBuilder.WriteString(" [")
	labelBuilder.WriteString(divergenceLabel)
	labelBuilder.WriteString("]")
	return labelBuilder.String()
}

func displayDirectory(repository discovery.Repository) string {
	if repository.IsRoot() {
		return "."
	}
	return repository.RelativeDirectory
}
