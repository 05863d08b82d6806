package main

import "github.com/partscope/partscope/cmd"

func main() {
	cmd.Execute()
}
