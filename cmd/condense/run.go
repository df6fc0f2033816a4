package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lyon1/condense/engine"
	"github.com/lyon1/condense/plugin/partition"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one condensation over a stored graph and print the result table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		storeInstance, err := newStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		graphName, _ := cmd.Flags().GetString("graph")
		candidates, _ := cmd.Flags().GetStringSlice("candidates")
		threshold, _ := cmd.Flags().GetInt64("degree-threshold")
		k, _ := cmd.Flags().GetInt("k")
		write, _ := cmd.Flags().GetBool("write")
		dropGraph, _ := cmd.Flags().GetBool("drop-graph")

		options := engine.DefaultOptions()
		if len(candidates) > 0 {
			options.Candidates = candidates
		}
		options.DegreeThreshold = threshold
		options.KValue = k
		options.Write = write
		options.DropGraph = dropGraph

		oracle := partition.NewLocalService(storeInstance)
		results, err := engine.New(storeInstance, oracle).Condense(ctx, graphName, options)
		if err != nil {
			return err
		}

		printResults(os.Stdout, results)
		return nil
	},
}

func init() {
	runCmd.Flags().String("graph", "", "name of the graph to condense")
	runCmd.Flags().StringSlice("candidates", nil, "candidate strategies to evaluate, in order")
	runCmd.Flags().Int64("degree-threshold", 15, "hub qualification threshold for the star strategy")
	runCmd.Flags().Int("k", 3, "parameter forwarded to the k-core strategy")
	runCmd.Flags().Bool("write", true, "persist the winning candidate's artifacts")
	runCmd.Flags().Bool("drop-graph", false, "discard the oracle's cached projection after the run")
	if err := runCmd.MarkFlagRequired("graph"); err != nil {
		panic(err)
	}
}

func printResults(w io.Writer, results []*engine.CandidateResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tSTATUS\tSCORE\tSUPER NODES\tSUPER EDGES\tRATIO\tWINNER")
	for _, result := range results {
		winner := ""
		if result.Winner {
			winner = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\n",
			result.Candidate,
			result.Status,
			formatScore(result.Score),
			result.SuperNodes,
			result.SuperEdges,
			result.CompressionRatio,
			winner)
	}
	tw.Flush()
}

func formatScore(score float64) string {
	if math.IsInf(score, 1) {
		return "Infinity"
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
