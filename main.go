package main

import "github.com/KaramelBytes/mused/cmd"

func main() {
	cmd.Execute()
}
