package main

import "github.com/devicelab-dev/pagefactory/pkg/cli"

func main() {
	cli.Execute()
}
