package main

import "gatebot/internal/cli"

func main() {
	cli.Execute()
}
