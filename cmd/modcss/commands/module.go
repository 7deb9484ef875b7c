package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modcss/internal/app"
)

func (c *CLI) newModuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module <file>",
		Short: "Print the JavaScript module exporting the tokens of a stylesheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			degrade, _ := cmd.Flags().GetBool("degrade")
			opts := buildOptions(cmd, nil)

			src, err := c.app.Module(cmd.Context(), app.ModuleOptions{
				BuildOptions: opts,
				File:         args[0],
				Degrade:      degrade,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), src)
			return err
		},
	}
	cmd.Flags().Bool("degrade", false, "Print a module that reports the error at runtime instead of failing")
	cmd.Flags().String("names", "", "Scoped name style: dev, prod or pattern")
	return cmd
}

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file> [entries...]",
		Short: "Show what a stylesheet imports and which stylesheets depend on it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Graph(cmd.Context(), app.GraphOptions{
				BuildOptions: buildOptions(cmd, args[1:]),
				File:         args[0],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, report.File)
			_, _ = fmt.Fprintln(out, "  imports:")
			printList(cmd, report.Dependencies)
			_, _ = fmt.Fprintln(out, "  imported by:")
			printList(cmd, report.Dependants)
			return nil
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of stylesheets compiled at once (default: number of CPUs)")
	cmd.Flags().String("names", "", "Scoped name style: dev, prod or pattern")
	return cmd
}

func printList(cmd *cobra.Command, files []string) {
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		_, _ = fmt.Fprintln(out, "    (none)")
		return
	}
	for _, f := range files {
		_, _ = fmt.Fprintln(out, "    "+f)
	}
}
