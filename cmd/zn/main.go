package main

import "zenith/cmd/zn/root"

func main() {
	root.Execute()
}
