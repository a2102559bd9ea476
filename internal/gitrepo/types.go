// Package gitrepo retrieves change information from git repositories. Every
// retrieval absorbs failures at this boundary: a branch without an upstream,
// a missing ref, or an unlaunchable git binary all surface as empty
// outcomes, never as errors, because the calling flow treats absence as a
// normal state. The outcome state still records which of the two happened.
package gitrepo

import "strings"

// OutcomeState classifies how a retrieval produced (or failed to produce) text.
type OutcomeState int

const (
	// OutcomeProduced indicates git ran successfully; Text holds its output.
	OutcomeProduced OutcomeState = iota
	// OutcomeEmpty indicates an expected absence such as a missing upstream.
	OutcomeEmpty
	// OutcomeExecutionFailed indicates git failed or could not be launched.
	// The report treats this the same as OutcomeEmpty; tests rely on the
	// distinction.
	OutcomeExecutionFailed
)

// RetrievalOutcome carries retrieved text together with its provenance.
type RetrievalOutcome struct {
	Text  string
	State OutcomeState
}

// HasContent reports whether the outcome carries non-blank text.
func (outcome RetrievalOutcome) HasContent() bool {
	return len(strings.TrimSpace(outcome.Text)) > 0
}

// Branch describes one local branch of a repository.
type Branch struct {
	Name          string
	IsCurrentHead bool
	UpstreamName  string
	AheadCount    int
	BehindCount   int
}

// HasUpstream reports whether the branch tracks a remote counterpart.
func (branch Branch) HasUpstream() bool {
	return len(branch.UpstreamName) > 0
}

// Commit describes one log entry, newest first in listings.
type Commit struct {
	ShortHash string
	Date      string
	Author    string
	Subject   string
}
