package main

import "github.com/kwasow/tabtime/cmd"

func main() {
	cmd.Execute()
}
