package main

import "github.com/tessro/clickwheel/internal/cli"

func main() {
	cli.Execute()
}
