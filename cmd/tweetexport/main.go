package main

import (
	"os"
)

func main() {
	rootCmd.SetArgs(rewriteArgs(rootCmd, os.Args[1:]))
	Execute()
}
