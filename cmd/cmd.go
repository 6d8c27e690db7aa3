// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// generateCommand runs the full generation pipeline.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen", "run"},
		Usage:   "Generate the dataset into a fresh SQLite store",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Generate,
	}
}

// exportCommand flattens the finished store into CSV files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the generated store to per-entity CSV files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to export.dir from config)",
			},
		},
		Action: r.Export,
	}
}

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write a default config.toml",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
