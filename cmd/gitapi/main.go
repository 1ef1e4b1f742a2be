package main

import (
	"context"
	"log"
	"os"

	"github.com/bravo68web/gitapi/internal/application/commands"
)

func main() {
	cmd := commands.NewCommandRegistry().RegisterCLI()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
