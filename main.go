package main

import "github.com/perch-ai/perch/cmd"

func main() {
	cmd.Execute()
}
