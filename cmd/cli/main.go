package main

import "reportam/cmd/cli/command"

func main() {
	command.Execute()
}
