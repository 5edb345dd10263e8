package main

import "github.com/orderly-io/orderly/cmd"

func main() {
	cmd.Execute()
}
