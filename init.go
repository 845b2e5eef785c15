package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thinkbox/apigen/internal/config"
)

// newInitCmd implements `apigen init`, which writes a default apigen.yaml.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path-to-apigen.yaml]",
		Short: "Write a default apigen.yaml",
		Long: `Write the default apigen configuration to a YAML file.

path-to-apigen.yaml defaults to ./apigen.yaml. An existing file is left
untouched unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "apigen.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.WriteDefault(path, force); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(stderr, "wrote default configuration to %s\n", path)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
