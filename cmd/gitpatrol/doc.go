// Package gitpatrol provides the command-line interface for the GitPatrol
// scanner. It configures subcommands (scan, patterns, baseline, ignore,
// config, update), parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/gitpatrol/gitpatrol/cmd/gitpatrol"
//	func main() { gitpatrol.Execute() }
package gitpatrol
