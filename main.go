package main

import (
	"os"

	"yamine/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
