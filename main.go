package main

import "musicality/cmd"

func main() {
	cmd.Execute()
}
