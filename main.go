package main

import (
	"github.com/ValentinKolb/rhmap/cmd"
)

func main() {
	cmd.Execute()
}
