package main

import (
	"os"

	"github.com/jhoicas/asseta-api/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
