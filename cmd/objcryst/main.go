package main

import "github.com/oshokin/objcryst/cmd/objcryst/cmd"

func main() {
	cmd.Execute()
}
