package main

import "github.com/hyizhou/ask/internal/commands"

func main() {
	commands.Execute()
}
