package main

import (
	"github.com/spf13/cobra"

	"github.com/culturebot/litcheck/internal/paper"
	"github.com/culturebot/litcheck/internal/refid"
)

var resolveFullText bool

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveFullText, "full-text", false, "Fetch full text, not just metadata")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <reference>",
	Short: "Resolve a reference id to paper content",
	Long: `Resolve normalizes a reference id and fetches the paper behind it,
walking the fetch cascade until a tier produces content. Results are
cached; a reference is only fetched once.

Examples:
  litcheck resolve PMID:32753581
  litcheck resolve doi:10.1128/AEM.01390-20 --full-text
  litcheck resolve 10.1371/journal.pone.0104192 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	ref, err := refid.Parse(args[0])
	if err != nil {
		exitWithError(ExitDataError, "unrecognized reference id %q", args[0])
	}

	cfg := mustLoadConfig()
	store := mustOpenCache(cfg)
	defer store.Close()
	cur := newCurator(cfg, store, mustLogger())

	rec, err := cur.Resolve(cmd.Context(), ref, resolveFullText)
	if err != nil {
		reportError("resolving %s: %v", ref.Canonical, err)
		return exitStatus(ExitError)
	}

	if humanOutput {
		if ref.Corrected() {
			outputHuman("corrected %q -> %s\n", ref.Raw, ref.Canonical)
		}
		printRecordHuman(rec)
	} else {
		outputJSON(ResolveResponse{
			Record:    rec,
			Corrected: ref.Corrected(),
			Raw:       args[0],
		})
	}
	if rec.Failed() {
		return exitStatus(ExitFetchFailed)
	}
	return nil
}

// ResolveResponse wraps a record with reference auto-fix reporting.
type ResolveResponse struct {
	*paper.Record
	Corrected bool   `json:"corrected,omitempty"`
	Raw       string `json:"raw,omitempty"`
}
