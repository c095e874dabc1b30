package main

import "github.com/pfrederiksen/gacor/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
