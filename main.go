package main

import "streamdex/cmd"

func main() {
	cmd.Execute()
}
