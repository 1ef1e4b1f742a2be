package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitapi/internal/server"
	"github.com/bravo68web/gitapi/internal/transport/http/router"
	"github.com/bravo68web/gitapi/pkg/logger"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			// Archives left behind by a previous process
			if removed, err := rt.deps.Workspace.Sweep(); err != nil {
				rt.log.Warn("failed to sweep archive workspace",
					logger.Dir(rt.deps.Workspace.BasePath()),
					logger.Error(err),
				)
			} else if removed > 0 {
				rt.log.Info("removed stale archives",
					logger.Dir(rt.deps.Workspace.BasePath()),
					logger.Int("count", removed),
				)
			}

			s := server.New(rt.cfg, rt.log)
			router.NewRouter(s, rt.deps).RegisterRoutes()

			rt.log.Info("serving repositories",
				logger.Dir(rt.cfg.Git.ReposPath),
				logger.String("base_url", rt.cfg.API.BaseURL()),
			)

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return s.Run(ctx)
		},
	}
}
