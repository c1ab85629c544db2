package main

import "pricepipe/internal/cli"

func main() {
	cli.Execute()
}
