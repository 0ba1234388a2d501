package main

import (
	"github.com/caas-team/statusboard/cmd"
)

// version is set at build time
var version string

func main() {
	cmd.Execute(version)
}
