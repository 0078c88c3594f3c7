package main

import "katydid-common-param/cmd/paramctl/cmd"

func main() {
	cmd.Execute()
}
