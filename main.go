package main

import (
	"os"

	"syl-grep/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
