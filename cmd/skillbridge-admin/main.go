package main

import "github.com/skillbridge/server/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
