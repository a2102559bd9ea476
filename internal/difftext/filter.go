package difftext

import "regexp"

// IgnoreRule pairs a compiled path pattern with a description of the noise
// category it removes.
type IgnoreRule struct {
	Pattern     *regexp.Regexp
	Description string
}

// The ordered noise table. A block is dropped when either of its header
// paths matches any rule; blocks without a recognized header are kept.
var ignoreRules = []IgnoreRule{
	{Pattern: regexp.MustCompile(`(^|/)node_modules/`), Description: "dependency directory"},
	{Pattern: regexp.MustCompile(`(^|/)vendor/`), Description: "dependency directory"},
	{Pattern: regexp.MustCompile(`(^|/)(dist|build|out|target|coverage)/`), Description: "build output directory"},
	{Pattern: regexp.MustCompile(`(^|/)(\.idea|\.vscode)/`), Description: "editor settings directory"},
	{Pattern: regexp.MustCompile(`\.(exe|dll|so|dylib|o|a|class|pyc|wasm|jar|bin)$`), Description: "compiled binary"},
	{Pattern: regexp.MustCompile(`(^|/)(package-lock\.json|yarn\.lock|pnpm-lock\.yaml|bun\.lockb|Cargo\.lock|Gemfile\.lock|composer\.lock|go\.sum)$`), Description: "lockfile"},
	{Pattern: regexp.MustCompile(`(^|/)(\.DS_Store|Thumbs\.db|desktop\.ini)$`), Description: "OS metadata file"},
	{Pattern: regexp.MustCompile(`\.log$`), Description: "log file"},
	{Pattern: regexp.MustCompile(`(^|/)\.env(\..+)?$`), Description: "environment file"},
}

// IgnoreRules exposes a copy of the noise table for reporting and tests.
func IgnoreRules() []IgnoreRule {
	duplicatedRules := make([]IgnoreRule, len(ignoreRules))
	copy(duplicatedRules, ignoreRules)
	return duplicatedRules
}

// IsIgnoredPath reports whether a repository-relative path matches any rule.
func IsIgnoredPath(path string) bool {
	for _, rule := range ignoreRules {
		if rule.Pattern.MatchString(path) {
			return true
		}
	}
	return false
}

// FilterIgnoredBlocks removes noise blocks from raw diff text, preserving
// the exact bytes and relative order of surviving blocks. Filtering is
// block-atomic and idempotent.
func FilterIgnoredBlocks(diffText string) string {
	blocks := SplitBlocks(diffText)
	if len(blocks) == 0 {
		return diffText
	}

	keptBlocks := blocks[:0]
	for _, block := range blocks {
		if blockMatchesIgnoreRules(block) {
			continue
		}
		keptBlocks = append(keptBlocks, block)
	}

	return JoinBlocks(keptBlocks)
}

func blockMatchesIgnoreRules(block DiffBlock) bool {
	if !block.HasRecognizedHeader() {
		return false
	}
	return IsIgnoredPath(block.PathA) || IsIgnoredPath(block.PathB)
}
