package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitapi/internal/server"
	"github.com/bravo68web/gitapi/internal/transport/http/router"
)

func DocsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Write the OpenAPI document of the HTTP API as YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file, stdout when empty",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			s := server.New(rt.cfg, rt.log)
			router.NewRouter(s, rt.deps).RegisterRoutes()

			out, err := s.OpenAPIGenerator.YAML()
			if err != nil {
				return err
			}

			if path := cmd.String("output"); path != "" {
				return os.WriteFile(path, out, 0o644)
			}
			_, err = cmd.Writer.Write(out)
			return err
		},
	}
}
