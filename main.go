package main

import "github.com/kozaktomas/photo-grid/cmd"

func main() {
	cmd.Execute()
}
