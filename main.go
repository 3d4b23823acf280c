package main

import "github.com/lumenlab/glossa/cmd"

func main() {
	cmd.Execute()
}
