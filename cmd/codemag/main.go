package main

import "codemag/internal/cli"

func main() {
	cli.Execute()
}
