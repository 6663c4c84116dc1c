// Command cosmic generates, harmonizes and serves a synthetic star catalog.
package main

import "github.com/papapumpkin/cosmic/cmd"

func main() {
	cmd.Execute()
}
