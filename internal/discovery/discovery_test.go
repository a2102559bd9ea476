package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipdiff/clipdiff/internal/discovery"
)

const (
	testRootAndChildCaseNameConstant     = "root_and_child"
	testSkippedDirectoryCaseNameConstant = "node_modules_not_scanned"
	testExclusionPatternCaseNameConstant = "exclusion_pattern"
	testChildOnlyCaseNameConstant        = "child_only_root_unmarked"
	testEmptyTreeCaseNameConstant        = "empty_tree"
	testStableOrderingCaseNameConstant   = "stable_ordering"
	testGitDirectoryNameConstant         = ".git"
	testAPIDirectoryNameConstant         = "api"
	testWebDirectoryNameConstant         = "web"
	testNodeModulesDirectoryNameConstant = "node_modules"
)

func markAsRepository(testInstance *testing.T, directoryPath string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(directoryPath, testGitDirectoryNameConstant), 0o755))
}

func TestScannerScan(testInstance *testing.T) {
	testInstance.Run(testRootAndChildCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()
		markAsRepository(testInstance, rootDirectory)
		markAsRepository(testInstance, filepath.Join(rootDirectory, testAPIDirectoryNameConstant))

		scanner, scannerError := discovery.NewScanner("")
		require.NoError(testInstance, scannerError)

		repositories, scanError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, scanError)
		require.Len(testInstance, repositories, 2)
		require.True(testInstance, repositories[0].IsRoot())
		require.Equal(testInstance, "", repositories[0].RelativeDirectory)
		require.Equal(testInstance, testAPIDirectoryNameConstant, repositories[1].RelativeDirectory)
		require.Equal(testInstance, testAPIDirectoryNameConstant+"/", repositories[1].PathPrefix())
		require.Equal(testInstance, "", repositories[0].PathPrefix())
	})

	testInstance.Run(testSkippedDirectoryCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()
		markAsRepository(testInstance, rootDirectory)
		markAsRepository(testInstance, filepath.Join(rootDirectory, testAPIDirectoryNameConstant))
		markAsRepository(testInstance, filepath.Join(rootDirectory, testNodeModulesDirectoryNameConstant))

		scanner, scannerError := discovery.NewScanner("")
		require.NoError(testInstance, scannerError)

		repositories, scanError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, scanError)
		require.Len(testInstance, repositories, 2)
		for _, repository := range repositories {
			require.NotEqual(testInstance, testNodeModulesDirectoryNameConstant, repository.RelativeDirectory)
		}
	})

	testInstance.Run(testExclusionPatternCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()
		markAsRepository(testInstance, filepath.Join(rootDirectory, testAPIDirectoryNameConstant))
		markAsRepository(testInstance, filepath.Join(rootDirectory, testWebDirectoryNameConstant))

		scanner, scannerError := discovery.NewScanner("^web$")
		require.NoError(testInstance, scannerError)

		repositories, scanError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, scanError)
		require.Len(testInstance, repositories, 1)
		require.Equal(testInstance, testAPIDirectoryNameConstant, repositories[0].Name)
	})

	testInstance.Run(testChildOnlyCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()
		markAsRepository(testInstance, filepath.Join(rootDirectory, testAPIDirectoryNameConstant))

		scanner, scannerError := discovery.NewScanner("")
		require.NoError(testInstance, scannerError)

		repositories, scanError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, scanError)
		require.Len(testInstance, repositories, 1)
		require.False(testInstance, repositories[0].IsRoot())
	})

	testInstance.Run(testEmptyTreeCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()

		scanner, scannerError := discovery.NewScanner("")
		require.NoError(testInstance, scannerError)

		repositories, scanError := scanner.Scan(rootDirectory)
		require.ErrorIs(testInstance, scanError, discovery.ErrNoRepositoriesFound)
		require.Empty(testInstance, repositories)
	})

	testInstance.Run(testStableOrderingCaseNameConstant, func(testInstance *testing.T) {
		rootDirectory := testInstance.TempDir()
		markAsRepository(testInstance, rootDirectory)
		markAsRepository(testInstance, filepath.Join(rootDirectory, testWebDirectoryNameConstant))
		markAsRepository(testInstance, filepath.Join(rootDirectory, testAPIDirectoryNameConstant))

		scanner, scannerError := discovery.NewScanner("")
		require.NoError(testInstance, scannerError)

		firstScan, firstError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, firstError)
		secondScan, secondError := scanner.Scan(rootDirectory)
		require.NoError(testInstance, secondError)
		require.Equal(testInstance, firstScan, secondScan)
		require.True(testInstance, firstScan[0].IsRoot())
	})
}

func TestScannerRejectsInvalidPattern(testInstance *testing.T) {
	scanner, scannerError := discovery.NewScanner("([")
	require.Error(testInstance, scannerError)
	require.Nil(testInstance, scanner)
}
