package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-dream-engine/internal/dictfile"
)

func newImportCmd(a *app) *cobra.Command {
	var showRejected bool

	cmd := &cobra.Command{
		Use:   "import <glob>",
		Short: "Import dictionary text files",
		Long: `Parse dictionary text files and store their entries.

Each line holds comma-separated entries such as 가게[5][33]★★★ or
가락지[0끝수][9]. The glob may use ** to match nested directories.

Examples:
  dream_engine import dict.txt
  dream_engine import 'dictionary/**/*.txt' --rejected`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, files, err := dictfile.LoadGlob(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %q", args[0])
			}

			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer a.closeEngine(cmd, eng)

			stored, err := eng.PutEntries(cmd.Context(), res.Entries...)
			if err != nil {
				return fmt.Errorf("store entries: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported %d entries from %d files (%d lines rejected).\n", stored, len(files), len(res.Rejected))
			if showRejected {
				for _, rej := range res.Rejected {
					fmt.Fprintf(w, "  %v\n", rej)
				}
			}
			fmt.Fprintf(w, "Dictionary now holds %d entries.\n", eng.Dictionary().Count())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showRejected, "rejected", false, "list rejected lines")
	return cmd
}
