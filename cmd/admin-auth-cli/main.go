package main

import (
	"github.com/turtacn/adminauth/cmd/cli"
)

// main is the entry point for the admin-auth-cli command-line tool.
// It delegates all execution to the Execute function provided by the cli package.
func main() {
	cli.Execute()
}
