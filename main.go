package main

import "github.com/erickpeirson/congress/cmd"

func main() {
	cmd.Execute()
}
