package main

import "github.com/jovitools/portal/cmd"

func main() {
	cmd.Execute()
}
