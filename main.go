package main

import "github.com/publica-project/publica/cmd"

func main() {
	cmd.Execute()
}
