package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-dream-engine/model"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		choices  map[string]string
		asJSON   bool
		topCount int
	)

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Analyze a dream description",
		Long: `Analyze a dream description and print the matched keywords and numbers.

When the text holds an ambiguous word that cannot be resolved from context,
the candidate senses are listed. Rerun with --choice word=sense_id to pick one.

Examples:
  dream_engine analyze "눈이 펑펑 내리는 밤에 강아지를 봤다"
  dream_engine analyze "배가 보였다" --choice 배=<sense_id>
  dream_engine analyze "고양이가 도망갔다" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer a.closeEngine(cmd, eng)

			out, err := eng.Analyze(cmd.Context(), strings.Join(args, " "), choices)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printOutcome(cmd.OutOrStdout(), out, topCount, a.verbose)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&choices, "choice", nil, "homonym choice as word=sense_id (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full outcome as JSON")
	cmd.Flags().IntVarP(&topCount, "numbers", "n", 6, "how many recommended numbers to print")
	return cmd
}

func printOutcome(w io.Writer, out *model.Outcome, top int, verbose bool) {
	if !out.Completed() {
		fmt.Fprintln(w, "Some words need a choice:")
		for _, p := range out.Pending.Pending {
			fmt.Fprintf(w, "\n%s\n", p.Keyword)
			for _, s := range p.Senses {
				marker := " "
				if s.Sense.ID == p.Suggested {
					marker = "*"
				}
				fmt.Fprintf(w, " %s %s  [%s] %s (score %.2f)\n", marker, s.Sense.ID, s.Sense.Category, s.Sense.Meaning, s.Score)
			}
		}
		fmt.Fprintln(w, "\nRerun with --choice word=sense_id.")
		return
	}

	res := out.Result
	fmt.Fprintf(w, "Confidence: %d%%\n", res.Confidence)
	fmt.Fprintf(w, "Numbers: %s\n", joinInts(res.Recommendation.TopNumbers(top)))
	if res.SuggestionText != "" {
		fmt.Fprintf(w, "%s\n", res.SuggestionText)
	}

	fmt.Fprintf(w, "\nKeywords (%d):\n", len(res.Keywords))
	for _, k := range res.Keywords {
		fmt.Fprintf(w, "  %s -> %s", k.Word, k.Matched)
		if k.Category != "" {
			fmt.Fprintf(w, " [%s]", k.Category)
		}
		fmt.Fprintf(w, " %d%%\n", k.Confidence)
		if verbose {
			nums := make([]int, 0, len(k.Numbers))
			for _, n := range k.Numbers {
				nums = append(nums, n.Number)
			}
			fmt.Fprintf(w, "     numbers: %s, match: %s, similarity: %d\n", joinInts(nums), k.MatchType, k.Similarity)
		}
	}
	for _, r := range res.Resolutions {
		fmt.Fprintf(w, "  resolved %s as %s (%s, %.2f)\n", r.Keyword, r.SelectedSense.Meaning, r.Method, r.Confidence)
	}
	if len(res.UnmatchedWords) > 0 {
		fmt.Fprintf(w, "\nNot in dictionary: %s\n", strings.Join(res.UnmatchedWords, ", "))
	}
	if len(res.SkippedWords) > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(res.SkippedWords, ", "))
	}
}

func joinInts(nums []int) string {
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, ", ")
}
