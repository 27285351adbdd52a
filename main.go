package main

import "epos-sync/cmd"

func main() {
	cmd.Execute()
}
