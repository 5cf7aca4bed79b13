package main

import "github.com/defscan/defscan/internal/cli"

func main() {
	cli.Execute()
}
