package main

import "github.com/specfleet/specfleet/cmd"

func main() {
	cmd.Execute()
}
