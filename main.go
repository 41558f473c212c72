package main

import "hoopsleague/cmd"

func main() {
	cmd.Execute()
}
