package main

import (
	"os"

	"github.com/armadaproject/searchbench/cmd/searchbench/cmd"
	"github.com/armadaproject/searchbench/internal/common/logging"
)

func main() {
	logging.MustConfigureApplicationLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
