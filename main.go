package main

import "github.com/gitpatrol/gitpatrol/cmd/gitpatrol"

func main() { gitpatrol.Execute() }
