package gitrepo

import (
	"context"
	"sync"
)

// FetchAllRemotes refreshes remote tracking state for every repository in
// parallel. Failures are swallowed: the fetch is an optimization and must
// never block the report.
func FetchAllRemotes(executionContext context.Context, retriever *ChangeRetriever, repositoryPaths []string) {
	var fetchWaitGroup sync.WaitGroup
	for _, repositoryPath := range repositoryPaths {
		fetchWaitGroup.Add(1)
		go func(fetchPath string) {
			defer fetchWaitGroup.Done()
			retriever.FetchRemote(executionContext, fetchPath)
		}(repositoryPath)
	}
	fetchWaitGroup.Wait()
}
