package main

import "github.com/handreceipt/hr-cli/cmd"

func main() {
	cmd.Execute()
}
