// cmd/osmchart/main.go
package main

import (
	osmchart "github.com/mwiater/osmchart/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	setVersionInfo = osmchart.SetVersionInfo
	executeCmd     = osmchart.Execute
)

// main starts the osmchart CLI by handing build information to the cobra
// root command and executing it.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
