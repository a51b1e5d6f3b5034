// main is the entry point for the blameshare CLI.
package main

import (
	"github.com/huangsam/blameshare/cmd"
	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/iocache"
)

func main() {
	if err := run(); err != nil {
		contract.LogFatal("Cannot run blameshare", err)
	}
}

// run executes the CLI and releases stores and profiles before returning.
func run() error {
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling", err)
		}
	}()

	cmd.SetCacheManager(iocache.Manager)
	return cmd.Execute()
}
