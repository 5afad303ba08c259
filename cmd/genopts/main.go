package main

import "github.com/reoring/genopts/cmd/genopts/commands"

func main() {
	commands.Execute()
}
