// Command reconcile runs one reconciliation batch from the command line:
// the same pipeline the server runs, without the upload form.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tratativas/internal/logger"
	"tratativas/internal/pipeline"
	"tratativas/internal/report"
	"tratativas/internal/version"
	"tratativas/internal/vocab"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, pipeline.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		transactionsPath string
		ordersPath       string
		historyPath      string
		vocabPath        string
		outPath          string
		historicalSheet  bool
	)

	cmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Cross the carrier transactions with the order maintenance into an exception worklist",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init()
			log := logger.Default()

			v := vocab.Default()
			if vocabPath != "" {
				loaded, err := vocab.Load(vocabPath)
				if err != nil {
					return err
				}
				v = loaded
			}

			txnFile, err := os.Open(transactionsPath)
			if err != nil {
				return fmt.Errorf("open transactions: %w", err)
			}
			defer txnFile.Close()

			orderFile, err := os.Open(ordersPath)
			if err != nil {
				return fmt.Errorf("open order records: %w", err)
			}
			defer orderFile.Close()

			in := pipeline.Input{
				Transactions: pipeline.Source{Name: transactionsPath, Reader: txnFile},
				Orders:       pipeline.Source{Name: ordersPath, Reader: orderFile},
				Vocabulary:   v,
				RunDate:      time.Now(),
			}

			if historyPath != "" {
				histFile, err := os.Open(historyPath)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer histFile.Close()
				in.History = &pipeline.Source{Name: historyPath, Reader: histFile}
			}

			res, err := pipeline.Run(cmd.Context(), in)
			if err != nil {
				log.Error("run_failed", "error", err.Error())
				return err
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			opts := report.Options{HistoricalSheet: historicalSheet}
			if err := report.Write(out, res, opts); err != nil {
				return err
			}

			fmt.Printf("Total reconciled:   %d\n", res.Summary.Total)
			fmt.Printf("Already in history: %d\n", res.Summary.Excluded)
			fmt.Printf("New for action:     %d\n", res.Summary.New)
			fmt.Printf("Workbook written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transactionsPath, "transactions", "t", "", "carrier transactions export (xlsx, xls or csv)")
	cmd.Flags().StringVarP(&ordersPath, "orders", "m", "", "order maintenance export (xlsx, xls or csv)")
	cmd.Flags().StringVar(&historyPath, "history", "", "optional prior worklist used as exclusion filter")
	cmd.Flags().StringVar(&vocabPath, "vocab", "", "optional YAML vocabulary override file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "tratativas.xlsx", "output workbook path")
	cmd.Flags().BoolVar(&historicalSheet, "historical-sheet", true, "include a second sheet with the excluded rows")
	cmd.MarkFlagRequired("transactions")
	cmd.MarkFlagRequired("orders")
	return cmd
}
