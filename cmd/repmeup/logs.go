package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogsCmd(a *app) *cobra.Command {
	var level string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent client log entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.container.Logger.GetLogs(level, limit, offset)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Printf("%s  %-5s  [%s] %s\n", entry.Timestamp, entry.Level, entry.Module, entry.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "filter by level (INFO, WARN, ERROR)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	return cmd
}
