// Package discovery enumerates the git repositories a report run operates
// on: the root working directory plus its immediate child directories.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	gitMetadataDirectoryNameConstant        = ".git"
	noRepositoriesFoundMessageConstant      = "no git repositories found in the working directory or its immediate children"
	rootDirectoryRequiredMessageConstant    = "root directory must be provided"
	exclusionPatternErrorTemplateConstant   = "invalid exclusion pattern %q: %w"
	rootDirectoryReadErrorTemplateConstant  = "unable to read directory %s: %w"
	rootRelativeDirectoryConstant           = ""
	repositoryPathSeparatorConstant         = "/"
	currentDirectoryDisplayFallbackConstant = "."
)

// Directories that never hold project repositories even when a marker exists.
var skippedDirectoryNames = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"out":          {},
	"target":       {},
	".git":         {},
	".idea":        {},
	".vscode":      {},
	".cache":       {},
}

// ErrNoRepositoriesFound indicates the scan produced an empty repository list.
var ErrNoRepositoriesFound = errors.New(noRepositoriesFoundMessageConstant)

// ErrRootDirectoryRequired indicates the scanner received an empty root path.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// Repository identifies one discovered repository within the report tree.
type Repository struct {
	// Name is the human-facing label: the directory base name.
	Name string
	// RelativeDirectory is empty for the root repository and the child
	// directory name otherwise. It doubles as the repository identity and
	// as the diff header rewrite prefix source.
	RelativeDirectory string
	// Path is the absolute or root-relative filesystem location handed to git.
	Path string
}

// IsRoot reports whether the repository is the scan root itself.
func (repository Repository) IsRoot() bool {
	return len(repository.RelativeDirectory) == 0
}

// PathPrefix returns the diff rewrite prefix: empty for the root repository,
// otherwise the relative directory with a trailing separator.
func (repository Repository) PathPrefix() string {
	if repository.IsRoot() {
		return rootRelativeDirectoryConstant
	}
	return repository.RelativeDirectory + repositoryPathSeparatorConstant
}

// Scanner locates repositories beneath a single root directory.
type Scanner struct {
	exclusionPattern *regexp.Regexp
}

// NewScanner constructs a Scanner, compiling the optional exclusion pattern.
func NewScanner(exclusionPattern string) (*Scanner, error) {
	trimmedPattern := strings.TrimSpace(exclusionPattern)
	if len(trimmedPattern) == 0 {
		return &Scanner{}, nil
	}

	compiledPattern, compileError := regexp.Compile(trimmedPattern)
	if compileError != nil {
		return nil, fmt.Errorf(exclusionPatternErrorTemplateConstant, trimmedPattern, compileError)
	}
	return &Scanner{exclusionPattern: compiledPattern}, nil
}

// Scan returns the root repository (when marked) followed by child
// repositories in directory-listing order. An empty result is an error.
func (scanner *Scanner) Scan(rootDirectory string) ([]Repository, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return nil, ErrRootDirectoryRequired
	}

	var repositories []Repository

	if scanner.containsGitMetadata(trimmedRoot) {
		repositories = append(repositories, Repository{
			Name:              scanner.rootDisplayName(trimmedRoot),
			RelativeDirectory: rootRelativeDirectoryConstant,
			Path:              trimmedRoot,
		})
	}

	directoryEntries, readError := os.ReadDir(trimmedRoot)
	if readError != nil {
		return nil, fmt.Errorf(rootDirectoryReadErrorTemplateConstant, trimmedRoot, readError)
	}

	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}

		directoryName := directoryEntry.Name()
		if scanner.isSkipped(directoryName) {
			continue
		}

		childPath := filepath.Join(trimmedRoot, directoryName)
		if !scanner.containsGitMetadata(childPath) {
			continue
		}

		repositories = append(repositories, Repository{
			Name:              directoryName,
			RelativeDirectory: directoryName,
			Path:              childPath,
		})
	}

	if len(repositories) == 0 {
		return nil, ErrNoRepositoriesFound
	}

	return repositories, nil
}

func (scanner *Scanner) isSkipped(directoryName string) bool {
	if _, fixedSkip := skippedDirectoryNames[directoryName]; fixedSkip {
		return true
	}
	if scanner.exclusionPattern != nil && scanner.exclusionPattern.MatchString(directoryName) {
		return true
	}
	return false
}

func (scanner *Scanner) containsGitMetadata(directoryPath string) bool {
	metadataPath := filepath.Join(directoryPath, gitMetadataDirectoryNameConstant)
	// A plain .git file (worktrees, submodules) marks a repository too.
	_, statError := os.Stat(metadataPath)
	return statError == nil
}

func (scanner *Scanner) rootDisplayName(rootDirectory string) string {
	absolutePath, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		absolutePath = rootDirectory
	}
	baseName := filepath.Base(absolutePath)
	if len(baseName) == 0 || baseName == string(filepath.Separator) {
		return currentDirectoryDisplayFallbackConstant
	}
	return baseName
}
