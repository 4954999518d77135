package main

import "github.com/dirsum/dirsum/cmd/dirsum/cmd"

func main() {
	cmd.Execute()
}
