package main

import "github.com/astrasemi/astrasemi/cmd"

func main() {
	cmd.Execute()
}
