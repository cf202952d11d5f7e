package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-dream-engine/internal/hangul"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <initial>",
		Short: "List dictionary entries by initial consonant",
		Long: `List dictionary entries whose word starts with the given initial consonant.

Examples:
  dream_engine browse ㄱ
  dream_engine browse ㅎ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := []rune(args[0])
			if len(initial) != 1 || !hangul.IsInitialConsonant(initial[0]) {
				return fmt.Errorf("%q is not an initial consonant", args[0])
			}

			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer a.closeEngine(cmd, eng)

			entries, err := eng.Dictionary().BrowseByInitial(cmd.Context(), initial[0])
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No entries found.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%s", e.Word)
				if e.Category != "" {
					fmt.Fprintf(w, " [%s]", e.Category)
				}
				fmt.Fprintf(w, " %s", joinInts(e.NumberValues()))
				if e.Importance > 0 {
					fmt.Fprintf(w, " %d", e.Importance)
				}
				if a.verbose && e.Meaning != "" {
					fmt.Fprintf(w, "  %s", e.Meaning)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
