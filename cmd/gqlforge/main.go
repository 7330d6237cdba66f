package main

import "github.com/gqlforge/gqlforge/internal/cli"

func main() {
	cli.Execute()
}
