package main

import "github.com/tesh254/turncopy/cmd"

func main() {
	cmd.Execute()
}
