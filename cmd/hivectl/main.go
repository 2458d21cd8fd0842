// Package main provides hivectl, the operator CLI for a hive state service.
// It speaks the same wire contract the game-server client does, but
// synchronously: each command performs one exchange and reports the outcome,
// which is what an operator poking at a hive wants.
package main

import (
	"fmt"
	"os"

	"github.com/sharedcode/hive"
)

func main() {
	hive.ConfigureLogging()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
