package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emfactor/emfactor/internal/engine"
	"github.com/emfactor/emfactor/internal/ingest"
)

// newBatchCmd creates the batch command: a whole activity batch file through
// CalculateBatch, printing per-row outcomes and a summary. When stdout is not
// a terminal the rows are emitted as NDJSON for downstream tooling.
func newBatchCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Calculate CO2e for an activity batch file",
		Long: `Loads an activity batch JSON file ({"tenant_id": ..., "records": [...]})
and runs every record through the calculation pipeline concurrently.
Row failures are reported per row; the batch always completes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			batch, err := ingest.LoadBatchWithContext(cmd.Context(), filePath)
			if err != nil {
				return err
			}

			results, err := eng.CalculateBatch(cmd.Context(), batch.TenantID, batch.Records)
			if err != nil {
				return err
			}

			if !isTerminal(os.Stdout) {
				return writeNDJSON(cmd, results)
			}

			failed := 0
			for _, row := range results {
				if row.Err != nil {
					failed++
					cmd.Printf("row %d: ERROR %v\n", row.Index, row.Err)
					continue
				}
				cmd.Printf("row %d: %s  [%s, %s]  (%s)\n",
					row.Index,
					formatKg(row.Result.EmissionKgCO2e),
					formatKg(row.Result.ConfidenceInterval95.Lower),
					formatKg(row.Result.ConfidenceInterval95.Upper),
					row.Result.FactorUsed)
			}
			cmd.Printf("\n%d rows, %d failed\n", len(results), failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "activity batch JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// batchRow is the NDJSON shape for one row. RowResult's Err is not
// marshalable, so failures are flattened to kind and message here.
type batchRow struct {
	Index   int                       `json:"index"`
	Result  *engine.CalculationResult `json:"result,omitempty"`
	Error   string                    `json:"error,omitempty"`
	ErrKind string                    `json:"error_kind,omitempty"`
}

// writeNDJSON emits one JSON object per row for piped output.
func writeNDJSON(cmd *cobra.Command, results []engine.RowResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for i := range results {
		row := batchRow{Index: results[i].Index}
		if err := results[i].Err; err != nil {
			row.Error = err.Error()
			var rowErr *engine.RowError
			if errors.As(err, &rowErr) {
				row.ErrKind = rowErr.Kind.String()
			}
		} else {
			row.Result = &results[i].Result
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encoding row %d: %w", results[i].Index, err)
		}
	}
	return nil
}
