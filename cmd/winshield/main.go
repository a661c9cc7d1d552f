package main

import (
	"fmt"
	"os"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/cmd/root"
)

func main() {
	if err := root.NewCmdRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to exec winshield: %s\n", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}
