package main

import "unifi-protect-cli/cmd"

func main() {
	cmd.Execute()
}
