package main

import "github.com/l1jgo/combatstats/cmd/statsctl/cmd"

func main() {
	cmd.Execute()
}
