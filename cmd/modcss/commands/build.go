package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/modcss/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [entries...]",
		Short: "Compile entry stylesheets into a bundle and a token manifest",
		Long: "Compile entry stylesheets into a bundle and a token manifest.\n" +
			"Entries may be files, directories or glob patterns. Without entries the\n" +
			"entries of modcss.yaml are built.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Build(cmd.Context(), buildOptions(cmd, args))
			return err
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [entries...]",
		Short: "Build, then rebuild whenever a stylesheet changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), buildOptions(cmd, args))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "Number of stylesheets compiled at once (default: number of CPUs)")
	cmd.Flags().String("css", "", "Path of the combined stylesheet")
	cmd.Flags().String("manifest", "", "Path of the token manifest")
	cmd.Flags().String("modules", "", "Directory for per-file token records")
	cmd.Flags().String("names", "", "Scoped name style: dev, prod or pattern")
}

func buildOptions(cmd *cobra.Command, args []string) app.BuildOptions {
	dir, _ := cmd.Flags().GetString("dir")
	jobs, _ := cmd.Flags().GetInt("jobs")
	css, _ := cmd.Flags().GetString("css")
	manifest, _ := cmd.Flags().GetString("manifest")
	modules, _ := cmd.Flags().GetString("modules")
	names, _ := cmd.Flags().GetString("names")

	return app.BuildOptions{
		Cwd:          dir,
		Entries:      args,
		Jobs:         jobs,
		CSSPath:      css,
		ManifestPath: manifest,
		ModulesDir:   modules,
		NameMode:     names,
	}
}
