package main

import "github.com/pullwatch/pullwatch/cmd"

func main() {
	cmd.Execute()
}
