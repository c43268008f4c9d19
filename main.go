package main

import "github.com/riceguard/apiserver/cmd"

func main() {
	cmd.Execute()
}
