package main

import "github.com/KaramelBytes/sheetprobe-cli/cmd"

func main() {
	cmd.Execute()
}
