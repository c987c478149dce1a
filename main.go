package main

import "mspro-labs/college-scout/cmd"

func main() {
	cmd.Execute()
}
