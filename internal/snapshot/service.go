package snapshot

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/clipdiff/clipdiff/internal/difftext"
	"github.com/clipdiff/clipdiff/internal/discovery"
	"github.com/clipdiff/clipdiff/internal/gitrepo"
	"github.com/clipdiff/clipdiff/internal/report"
)

const (
	retrieverMissingMessageConstant    = "change retriever not configured"
	sectionCollectedLogMessageConstant = "repository section collected"
	logFieldRepositoryConstant         = "repository"
	logFieldSubsectionCountConstant    = "subsection_count"
)

// ErrRetrieverNotConfigured indicates the service was built without a retriever.
var ErrRetrieverNotConfigured = errors.New(retrieverMissingMessageConstant)

// Dependencies enumerates external collaborators for snapshot collection.
type Dependencies struct {
	Retriever *gitrepo.ChangeRetriever
	Logger    *zap.Logger
}

// Service collects live-diff sections across discovered repositories.
type Service struct {
	retriever *gitrepo.ChangeRetriever
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Retriever == nil {
		return nil, ErrRetrieverNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: dependencies.Retriever, logger: logger}, nil
}

// CollectSections synchronizes remotes, then walks repositories in
// discovery order and assembles each one's change categories.
func (service *Service) CollectSections(executionContext context.Context, repositories []discovery.Repository) []report.Section {
	repositoryPaths := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		repositoryPaths = append(repositoryPaths, repository.Path)
	}
	gitrepo.FetchAllRemotes(executionContext, service.retriever, repositoryPaths)

	sections := make([]report.Section, 0, len(repositories))
	for _, repository := range repositories {
		section := service.collectRepositorySection(executionContext, repository)
		service.logger.Debug(
			sectionCollectedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.Int(logFieldSubsectionCountConstant, len(section.Subsections)),
		)
		sections = append(sections, section)
	}
	return sections
}

func (service *Service) collectRepositorySection(executionContext context.Context, repository discovery.Repository) report.Section {
	section := report.Section{
		RepositoryName:    repository.Name,
		RelativeDirectory: repository.RelativeDirectory,
	}
	pathPrefix := repository.PathPrefix()

	aheadOutcome := service.retriever.AheadOfUpstreamDiff(executionContext, repository.Path)
	section.AppendSubsection(report.CategoryAheadOfUpstream, filterAndRewrite(aheadOutcome.Text, pathPrefix))

	stagedOutcome := service.retriever.StagedDiff(executionContext, repository.Path)
	section.AppendSubsection(report.CategoryStaged, filterAndRewrite(stagedOutcome.Text, pathPrefix))

	unstagedOutcome := service.retriever.UnstagedDiff(executionContext, repository.Path)
	section.AppendSubsection(report.CategoryUnstaged, filterAndRewrite(unstagedOutcome.Text, pathPrefix))

	section.AppendSubsection(report.CategoryUntracked, service.collectUntrackedDiff(executionContext, repository, pathPrefix))

	return section
}

// collectUntrackedDiff renders untracked files as diffs against the empty
// device, so they flow through the same filter and rewrite stages as
// tracked changes.
func (service *Service) collectUntrackedDiff(executionContext context.Context, repository discovery.Repository, pathPrefix string) string {
	var untrackedBuilder strings.Builder
	for _, untrackedPath := range service.retriever.UntrackedFiles(executionContext, repository.Path) {
		if difftext.IsIgnoredPath(untrackedPath) {
			continue
		}
		untrackedOutcome := service.retriever.UntrackedFileDiff(executionContext, repository.Path, untrackedPath)
		untrackedBuilder.WriteString(untrackedOutcome.Text)
	}
	return filterAndRewrite(untrackedBuilder.String(), pathPrefix)
}

func filterAndRewrite(diffText string, pathPrefix string) string {
	return difftext.RewritePaths(difftext.FilterIgnoredBlocks(diffText), pathPrefix)
}
