package main

import "github.com/hurou927/db-catalog/cmd"

func main() {
	cmd.Execute()
}
