package main

import "github.com/sandeepkv93/lifeboard/cmd/lifeboard/root"

func main() {
	root.Execute()
}
