package selection

import (
	"os"

	"github.com/mattn/go-isatty"
)

// StandardStreamsInteractive reports whether both standard input and output
// are attached to a terminal, which gates the interactive selection flow.
func StandardStreamsInteractive() bool {
	return streamIsTerminal(os.Stdin.Fd()) && streamIsTerminal(os.Stdout.Fd())
}

func streamIsTerminal(fileDescriptor uintptr) bool {
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
