// Command dbn runs exact inference on discrete Bayesian networks.
//
//	dbn <model> <evidence> [-m 123] [--state ids] [-v] [--format text|json]
//	dbn marginal <model> [--query ids] [--backend dense|sparse]
//	dbn gen circuit|grid ...
package main

import (
	"os"

	"github.com/katalvlaran/dbn/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
