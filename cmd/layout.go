package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [REQUEST_PATH]",
	Short: "print the layout of one signup sheet as JSON",
	Long:  `print the draw commands (text, font size, position and measured width) computed for one request path as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequestPath(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		res, err := a.build(req)
		if err != nil {
			return err
		}
		b, err := res.MarshalIndent()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
