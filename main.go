package main

import "github.com/contentgraph/pagetree/cmd"

func main() {
	cmd.Execute()
}
