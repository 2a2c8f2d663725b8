package main

import "github.com/timvw/replink/cmd"

func main() {
	cmd.Execute()
}
