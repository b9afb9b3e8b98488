package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/culturebot/litcheck/internal/curator"
)

func init() {
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <items.yaml>",
	Short: "Process a batch of evidence items",
	Long: `Batch reads a YAML or JSON array of evidence items and runs each
through the full pipeline sequentially, pausing between items to stay
polite to the endpoints. Use "-" to read from stdin.

Item format:
  - reference: PMID:32753581
    snippet: reduced 87% of available ferric iron
    topic: Geobacter sulfurreducens
    roles: [PRIMARY_DEGRADER]

Examples:
  litcheck batch evidence.yaml
  cat evidence.json | litcheck batch - --human`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// parseBatchItems decodes a batch document. JSON is a YAML subset, so
// one decoder serves evidence files in either format.
func parseBatchItems(data []byte) ([]curator.Item, error) {
	var items []curator.Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// BatchSummary is the JSON envelope for batch results.
type BatchSummary struct {
	Total       int              `json:"total"`
	Valid       int              `json:"valid"`
	Invalid     int              `json:"invalid"`
	Unresolved  int              `json:"unresolved"`
	Corrected   int              `json:"corrected"`
	Results     []curator.Result `json:"results"`
	Interrupted bool             `json:"interrupted,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		exitWithError(ExitError, "reading batch file: %v", err)
	}

	items, err := parseBatchItems(data)
	if err != nil {
		exitWithError(ExitDataError, "parsing batch file: %v", err)
	}
	if len(items) == 0 {
		exitWithError(ExitDataError, "batch file contains no items")
	}

	cfg := mustLoadConfig()
	store := mustOpenCache(cfg)
	defer store.Close()
	cur := newCurator(cfg, store, mustLogger())

	results := cur.ProcessBatch(cmd.Context(), items)

	summary := BatchSummary{
		Total:       len(items),
		Results:     results,
		Interrupted: len(results) < len(items),
	}
	for _, r := range results {
		switch r.State {
		case curator.StateValid:
			summary.Valid++
		case curator.StateInvalid, curator.StateSuggested, curator.StateNoSuggestion:
			summary.Invalid++
		default:
			summary.Unresolved++
		}
		if r.Corrected {
			summary.Corrected++
		}
	}

	if humanOutput {
		for _, r := range results {
			printResultHuman(r)
		}
		outputHuman("\n%d items: %d valid, %d invalid, %d unresolved, %d ids corrected\n",
			summary.Total, summary.Valid, summary.Invalid, summary.Unresolved, summary.Corrected)
	} else {
		outputJSON(summary)
	}

	if summary.Invalid > 0 {
		return exitStatus(ExitInvalid)
	}
	return nil
}
