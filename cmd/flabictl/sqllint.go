package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flabi/internal/sqlinline"
)

func sqllintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sqllint [dir...]",
		Short: "Check that every SQL constant starts with a unique --sql <uuid> marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			violations, err := sqlinline.Lint(args...)
			if err != nil {
				return err
			}
			for _, v := range violations {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s: %s\n", v.File, v.Line, v.Name, v.Message)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d sql marker violation(s)", len(violations))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sql markers ok")
			return nil
		},
	}
}
