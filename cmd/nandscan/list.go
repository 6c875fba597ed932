package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nandscan/nandscan/internal/projects"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := projects.Discover(cfg.ResolveGameDir(gameDir))
		if err != nil {
			return err
		}
		if len(list) == 0 {
			logger.Warn("No projects found")
			return nil
		}
		for i, p := range list {
			fmt.Printf("  %d.) %s\t%s\n", i+1, p.Name, p.Path)
		}
		return nil
	},
}
