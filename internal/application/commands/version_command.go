package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitapi/internal/server"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show the detected git version and the commit date layout it selects",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			formats, err := rt.deps.GitOperations.Formats(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "gitapi %s\n", server.Version)
			fmt.Fprintf(cmd.Writer, "git %s\n", formats.Version())
			fmt.Fprintf(cmd.Writer, "commit dates: %s\n", formats.DateStyle())
			return nil
		},
	}
}
