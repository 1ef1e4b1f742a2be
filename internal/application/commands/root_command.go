package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitapi/internal/config"
	"github.com/bravo68web/gitapi/internal/injectable"
	"github.com/bravo68web/gitapi/internal/server"
	"github.com/bravo68web/gitapi/pkg/logger"
)

type CommandRegistry struct {
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

func (*CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "gitapi",
		Usage:                 "Read-only HTTP API over a directory of bare git repositories",
		Version:               server.Version,
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: RootCommand(),
		Commands: []*cli.Command{
			ServeCommand(),
			RepoCommands(),
			VersionCommand(),
			DocsCommand(),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		fmt.Fprintln(cmd.Writer, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintln(cmd.Writer, "gitapi: read-only git repository API")
		fmt.Fprintln(cmd.Writer, "Use 'gitapi --help' to see available commands.")
		fmt.Fprintln(cmd.Writer, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		return nil
	}
}

// runtime is what every subcommand needs once configuration is loaded
type runtime struct {
	cfg  *config.Config
	log  *logger.Logger
	deps injectable.Dependencies
}

// bootstrap loads the configuration named by --config, installs the global
// logger and wires the dependencies. The caller closes the logger.
func bootstrap(cmd *cli.Command) (*runtime, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	log, err := injectable.NewLogger(cfg, server.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetGlobal(log)

	deps, err := injectable.LoadDependencies(cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, deps: deps}, nil
}
