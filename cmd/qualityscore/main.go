// main is the entry point for the qualityscore CLI.
package main

import (
	"github.com/huangsam/qualityscore/cmd"
	"github.com/huangsam/qualityscore/internal/contract"
)

func main() {
	err := cmd.Execute()
	if cerr := cmd.Cleanup(); cerr != nil {
		contract.LogWarn("Failed to close store", cerr)
	}
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
