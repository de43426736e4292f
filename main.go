package main

import (
	"os"

	"github.com/mouse-blink/quill/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
