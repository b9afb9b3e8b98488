package main

import (
	"github.com/spf13/cobra"

	"github.com/culturebot/litcheck/internal/curator"
)

var validateTopic string

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateTopic, "topic", "", "Topic context (e.g. organism name), used for suggestions")
}

var validateCmd = &cobra.Command{
	Use:   "validate <reference> <snippet>",
	Short: "Check whether a snippet is an authentic quotation from its source",
	Long: `Validate resolves the reference, then checks the snippet against the
paper's abstract, falling back to full text when the abstract does not
contain it. An invalid snippet comes back with ranked replacement
suggestions from the source document.

Examples:
  litcheck validate PMID:32753581 "reduced 87% of available ferric iron"
  litcheck validate doi:10.1128/AEM.01390-20 "..." --topic "Geobacter sulfurreducens"`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := mustOpenCache(cfg)
	defer store.Close()
	cur := newCurator(cfg, store, mustLogger())

	res := cur.Process(cmd.Context(), curator.Item{
		Reference: args[0],
		Snippet:   args[1],
		Topic:     validateTopic,
	})

	if humanOutput {
		printResultHuman(res)
	} else {
		outputJSON(res)
	}

	switch res.State {
	case curator.StateBadReference:
		return exitStatus(ExitDataError)
	case curator.StateFetchFailed:
		return exitStatus(ExitFetchFailed)
	case curator.StateValid:
		return nil
	default:
		return exitStatus(ExitInvalid)
	}
}
