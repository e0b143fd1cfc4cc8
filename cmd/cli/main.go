package main

import "mangabook/cmd/cli/command"

func main() {
	command.Execute()
}
