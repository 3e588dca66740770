package main

import "github.com/ByLCY/sheetsmith/cmd"

func main() {
	cmd.Execute()
}
