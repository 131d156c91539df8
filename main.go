package main

import "github.com/jkulhanek/dupescan/cmd"

func main() {
	cmd.Execute()
}
