package main

import "ougadgets/cmd/cli/commands"

func main() {
	commands.Execute()
}
