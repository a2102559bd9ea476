// Package difftext parses unified diff text into per-file blocks and applies
// the noise filtering and path namespacing stages of report assembly.
package difftext

import (
	"regexp"
	"strings"
)

const (
	diffBlockHeaderPrefixConstant = "diff --git "
	lineSeparatorConstant         = "\n"
)

var diffBlockHeaderPattern = regexp.MustCompile(`^diff --git a/(.+?) b/(.+)$`)

// DiffBlock is the text for one file's change within a larger diff. The body
// retains the exact original bytes including the header line, so re-joining
// surviving blocks reproduces the source formatting.
type DiffBlock struct {
	PathA string
	PathB string
	Body  string
}

// HasRecognizedHeader reports whether the block carried a parseable
// "diff --git" header with both path captures.
func (block DiffBlock) HasRecognizedHeader() bool {
	return len(block.PathA) > 0 && len(block.PathB) > 0
}

// SplitBlocks divides raw diff text into blocks at each per-file header
// line. Text preceding the first header becomes a headerless block, which
// later stages keep conservatively.
func SplitBlocks(diffText string) []DiffBlock {
	if len(diffText) == 0 {
		return nil
	}

	blockStartOffsets := findBlockStartOffsets(diffText)
	if len(blockStartOffsets) == 0 {
		return []DiffBlock{{Body: diffText}}
	}

	var blocks []DiffBlock
	if blockStartOffsets[0] > 0 {
		blocks = append(blocks, DiffBlock{Body: diffText[:blockStartOffsets[0]]})
	}

	for startIndex, startOffset := range blockStartOffsets {
		endOffset := len(diffText)
		if startIndex+1 < len(blockStartOffsets) {
			endOffset = blockStartOffsets[startIndex+1]
		}

		blockBody := diffText[startOffset:endOffset]
		pathA, pathB := parseHeaderPaths(blockBody)
		blocks = append(blocks, DiffBlock{PathA: pathA, PathB: pathB, Body: blockBody})
	}

	return blocks
}

// JoinBlocks concatenates block bodies in order, reproducing the exact bytes
// of each block.
func JoinBlocks(blocks []DiffBlock) string {
	var joinedText strings.Builder
	for _, block := range blocks {
		joinedText.WriteString(block.Body)
	}
	return joinedText.String()
}

func findBlockStartOffsets(diffText string) []int {
	var startOffsets []int

	lineStartOffset := 0
	for lineStartOffset <= len(diffText) {
		if strings.HasPrefix(diffText[lineStartOffset:], diffBlockHeaderPrefixConstant) {
			startOffsets = append(startOffsets, lineStartOffset)
		}
		nextLineBreak := strings.Index(diffText[lineStartOffset:], lineSeparatorConstant)
		if nextLineBreak < 0 {
			break
		}
		lineStartOffset += nextLineBreak + 1
	}

	return startOffsets
}

func parseHeaderPaths(blockBody string) (string, string) {
	headerLine := blockBody
	if lineBreakIndex := strings.Index(blockBody, lineSeparatorConstant); lineBreakIndex >= 0 {
		headerLine = blockBody[:lineBreakIndex]
	}

	headerMatches := diffBlockHeaderPattern.FindStringSubmatch(headerLine)
	if headerMatches == nil {
		return "", ""
	}
	return headerMatches[1], headerMatches[2]
}
