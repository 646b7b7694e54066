package main

import (
	"os"

	"github.com/spf13/cobra"

	"emailbuilder/internal/app"
)

func renderCommand() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "render <template.json>",
		Short: "Render a saved template value to HTML without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return app.RenderFile(cmd.Context(), cfg, in, out)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the document to this file instead of stdout")
	return cmd
}
