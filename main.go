package main

import "github.com/miguel-octavio-aguila/secdevops-challenge-1/cmd"

func main() {
	cmd.Execute()
}
