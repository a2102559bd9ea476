package difftext

import (
	"fmt"
	"regexp"
)

const (
	diffHeaderReplacementTemplateConstant = "diff --git a/%[1]s${1} b/%[1]s${2}"
	oldFileReplacementTemplateConstant    = "--- a/%s${1}"
	newFileReplacementTemplateConstant    = "+++ b/%s${1}"
)

var (
	diffHeaderLinePattern = regexp.MustCompile(`(?m)^diff --git a/(.+?) b/(.+)$`)
	oldFileHeaderPattern  = regexp.MustCompile(`(?m)^--- a/(.+)$`)
	newFileHeaderPattern  = regexp.MustCompile(`(?m)^\+\+\+ b/(.+)$`)
)

// RewritePaths prepends the repository prefix to the path captures of the
// three diff header line kinds, leaving every other line byte-identical.
// "/dev/null" sides carry no a/ or b/ marker, so deletions and creations
// keep their empty side untouched. An empty prefix is the identity.
func RewritePaths(diffText string, pathPrefix string) string {
	if len(pathPrefix) == 0 {
		return diffText
	}

	rewrittenText := diffHeaderLinePattern.ReplaceAllString(diffText, fmt.Sprintf(diffHeaderReplacementTemplateConstant, pathPrefix))
	rewrittenText = oldFileHeaderPattern.ReplaceAllString(rewrittenText, fmt.Sprintf(oldFileReplacementTemplateConstant, pathPrefix))
	rewrittenText = newFileHeaderPattern.ReplaceAllString(rewrittenText, fmt.Sprintf(newFileReplacementTemplateConstant, pathPrefix))
	return rewrittenText
}
