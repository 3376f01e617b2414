package main

import (
	"os"

	"github.com/danieluxury88/BotsTeam/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
