// Package cmd implements the CLI application to edit tax declaration
// files.
package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the application.
// A main package registers them on a commander and Execute()s the
// user-selected one.
var Commands = []subcommands.Command{
	&addCmd{},
	&dumpCmd{},
	&rateCmd{},
	&topicCmd{},
}
