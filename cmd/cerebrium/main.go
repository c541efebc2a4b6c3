package main

import (
	"os"

	"github.com/cerebriumai/cerebrium-launcher/cmd/cerebrium/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
