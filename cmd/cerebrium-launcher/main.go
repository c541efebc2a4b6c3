package main

import (
	"github.com/cerebriumai/cerebrium-launcher/cmd/cerebrium-launcher/cmd"
)

func main() {
	cmd.Execute()
}
