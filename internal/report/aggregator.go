// Package report assembles per-repository change sections into the single
// ordered text report handed to the delivery sink.
package report

import (
	"fmt"
	"strings"
)

const (
	reportBannerConstant            = "===== Repository Changes Report ====="
	sectionHeaderTemplateConstant   = "## %s (%s)"
	subsectionHeaderTemplateConstant = "### %s"
	cleanTreeMarkerConstant         = "(clean tree)"
	rootDirectoryDisplayConstant    = "."
	lineSeparatorConstant           = "\n"
	sectionSeparatorConstant        = "\n"
)

// Category labels in their fixed priority order for live-diff sections.
const (
	CategoryAheadOfUpstream = "Ahead of upstream"
	CategoryStaged          = "Staged changes"
	CategoryUnstaged        = "Unstaged changes"
	CategoryUntracked       = "Untracked files"
)

// Subsection is one labeled block of filtered, path-rewritten diff text.
type Subsection struct {
	Label string
	Text  string
}

// Section carries all subsections of one repository in priority order.
type Section struct {
	RepositoryName    string
	RelativeDirectory string
	Subsections       []Subsection
}

// IsClean reports whether the repository contributed no change text.
func (section Section) IsClean() bool {
	return len(section.Subsections) == 0
}

// AppendSubsection adds a labeled block, skipping blank text so that empty
// change categories never produce headers.
func (section *Section) AppendSubsection(label string, text string) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}
	section.Subsections = append(section.Subsections, Subsection{Label: label, Text: text})
}

// CommitSubsectionLabel renders the one-line metadata heading for a commit
// subsection in history mode.
func CommitSubsectionLabel(shortHash string, date string, author string, subject string) string {
	return fmt.Sprintf("Commit %s (%s, %s): %s", shortHash, date, author, subject)
}

// Render produces the final report text: a banner, then sections in
// discovery order, each with its labeled blocks or a clean-tree marker.
func Render(sections []Section) string {
	var reportBuilder strings.Builder
	reportBuilder.WriteString(reportBannerConstant)
	reportBuilder.WriteString(lineSeparatorConstant)

	for _, section := range sections {
		reportBuilder.WriteString(sectionSeparatorConstant)
		reportBuilder.WriteString(fmt.Sprintf(sectionHeaderTemplateConstant, section.RepositoryName, displayDirectory(section.RelativeDirectory)))
		reportBuilder.WriteString(lineSeparatorConstant)

		if section.IsClean() {
			reportBuilder.WriteString(cleanTreeMarkerConstant)
			reportBuilder.WriteString(lineSeparatorConstant)
			continue
		}

		for _, subsection := range section.Subsections {
			reportBuilder.WriteString(fmt.Sprintf(subsectionHeaderTemplateConstant, subsection.Label))
			reportBuilder.WriteString(lineSeparatorConstant)
			reportBuilder.WriteString(subsection.Text)
			if !strings.HasSuffix(subsection.Text, lineSeparatorConstant) {
				reportBuilder.WriteString(lineSeparatorConstant)
			}
		}
	}

	return reportBuilder.String()
}

func displayDirectory(relativeDirectory string) string {
	if len(relativeDirectory) == 0 {
		return rootDirectoryDisplayConstant
	}
	return relativeDirectory
}
