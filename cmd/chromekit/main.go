package main

import "github.com/bnema/chromekit/internal/cli/cmd"

func main() {
	cmd.Execute()
}
