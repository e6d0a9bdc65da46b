package main

import (
	"github.com/joshua-decoder/joshua-bundle/pkg/cli"
)

func main() {
	cli.Execute()
}
