package hive

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// Version is the current version of the hive client library.
var Version = strings.TrimSpace(versionFile)
