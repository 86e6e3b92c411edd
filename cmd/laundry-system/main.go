package main

import "laundry-system/internal/cli"

func main() {
	cli.Execute()
}
