package main

import (
	"github.com/spf13/cobra"

	"github.com/culturebot/litcheck/internal/curator"
	"github.com/culturebot/litcheck/internal/refid"
	"github.com/culturebot/litcheck/internal/snippet"
)

var (
	suggestTopic string
	suggestRoles []string
)

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestTopic, "topic", "", "Topic context (e.g. organism name)")
	suggestCmd.Flags().StringSliceVar(&suggestRoles, "role", nil, "Ecological role context (repeatable)")
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <reference> [current-snippet]",
	Short: "Propose evidence snippets from a paper",
	Long: `Suggest resolves the reference and ranks candidate sentences from its
content by topic and keyword relevance. When a current snippet is given,
it seeds the keyword context and is excluded from the candidates.

Examples:
  litcheck suggest PMID:32753581 --topic "Geobacter sulfurreducens"
  litcheck suggest doi:10.1128/AEM.01390-20 "old snippet" --role PRIMARY_DEGRADER`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ref, err := refid.Parse(args[0])
	if err != nil {
		exitWithError(ExitDataError, "unrecognized reference id %q", args[0])
	}
	current := ""
	if len(args) == 2 {
		current = args[1]
	}

	cfg := mustLoadConfig()
	store := mustOpenCache(cfg)
	defer store.Close()
	cur := newCurator(cfg, store, mustLogger())

	rec, err := cur.Resolve(cmd.Context(), ref, true)
	if err != nil {
		reportError("resolving %s: %v", ref.Canonical, err)
		return exitStatus(ExitError)
	}
	if rec.Failed() {
		if humanOutput {
			printRecordHuman(rec)
		} else {
			outputJSON(rec)
		}
		return exitStatus(ExitFetchFailed)
	}

	source := rec.FullText
	if source == "" {
		source = rec.Abstract
	}
	q := snippet.Query{
		Topic:    suggestTopic,
		Keywords: snippet.ContextKeywords(suggestRoles, current),
	}
	suggestions := snippet.NewScorer().Suggest(source, q, current)

	res := curator.Result{
		Reference:   args[0],
		Canonical:   ref.Canonical,
		State:       curator.StateSuggested,
		Suggestions: suggestions,
	}
	if len(suggestions) == 0 {
		res.State = curator.StateNoSuggestion
	}

	if humanOutput {
		printResultHuman(res)
	} else {
		outputJSON(res)
	}
	return nil
}
