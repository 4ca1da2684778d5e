package main

import "github.com/eulark/eulark-site/cli"

func main() {
	cli.Execute()
}
