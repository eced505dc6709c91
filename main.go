package main

import "github.com/Alijeyrad/passhash/cmd"

func main() {
	cmd.Execute()
}
