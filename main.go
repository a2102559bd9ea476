package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/clipdiff/clipdiff/cmd/cli"
	"github.com/clipdiff/clipdiff/internal/exitcode"
)

const (
	exitErrorTemplateConstant = "%v\n"
	fallbackExitCodeConstant  = 1
)

// main executes the clipdiff command-line application and maps coded errors
// onto process exit statuses.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var codedError *exitcode.Error
	if errors.As(executionError, &codedError) {
		if len(codedError.Reason) > 0 {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, codedError.Reason)
		}
		os.Exit(codedError.Status)
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(fallbackExitCodeConstant)
}
