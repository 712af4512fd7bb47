package main

import (
	"github.com/bibx-go/bibx/cmd"
)

func main() {
	cmd.Execute()
}
