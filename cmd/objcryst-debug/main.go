package main

import "github.com/oshokin/objcryst/cmd/objcryst-debug/cmd"

func main() {
	cmd.Execute()
}
