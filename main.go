package main

import "github.com/kirill-demidov/gcp-cost-agent/cmd"

func main() {
	cmd.Execute()
}
