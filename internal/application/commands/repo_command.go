package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func RepoCommands() *cli.Command {
	return &cli.Command{
		Name:  "repo",
		Usage: "Inspect repositories under the configured root",
		Commands: []*cli.Command{
			List(),
			Show(),
		},
	}
}

func List() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every bare repository",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			repos, err := rt.deps.RepoService.ListRepositories(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tUPDATED\tDESCRIPTION")
			for _, repo := range repos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", repo.FullName, repo.UpdatedAt, repo.Description)
			}
			return w.Flush()
		},
	}
}

func Show() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a repository with its commit count as JSON",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("repository name is required")
			}

			rt, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			detail, err := rt.deps.RepoService.GetRepositoryDetail(ctx, name)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		},
	}
}
