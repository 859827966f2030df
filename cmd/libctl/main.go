package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xiebiao/library/internal/interface/cli"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func main() {
	if err := cli.NewRootCmd(cli.Options{}).Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	red := color.New(color.FgRed)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		red.Fprintln(os.Stderr, "错误:", err)
		return
	}

	red.Fprintf(os.Stderr, "错误[%d]: %s\n", appErr.Code, appErr.Message)
	for _, v := range appErr.Violations {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", v.Field, v.Message)
	}
	if appErr.Err != nil {
		fmt.Fprintf(os.Stderr, "  原因: %v\n", appErr.Err)
	}
}
