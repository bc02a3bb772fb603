// Command vimscript lints, formats and inspects Vimscript files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).SprintFunc()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
		os.Exit(1)
	}
}
