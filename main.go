package main

import "github.com/iksnae/hajimi/cmd"

func main() {
	cmd.Execute()
}
