// Package main is the entry point for the leetfriends CLI.
package main

import (
	// Bundle IANA timezone data so named zones resolve on hosts
	// without a system database.
	_ "time/tzdata"

	"github.com/dquaid/leetfriends/internal/cli"
)

func main() {
	cli.Execute()
}
