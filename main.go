// Command marketboard tracks market work-package tasks from the terminal.
package main

import "github.com/twiced-technology-gmbh/marketboard/cmd"

func main() {
	cmd.Execute()
}
