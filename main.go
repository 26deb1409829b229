package main

import "github.com/nethalo/oscmig/cmd"

func main() {
	cmd.Execute()
}
