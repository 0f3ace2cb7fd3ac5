package relato

import (
	"context"
	"fmt"

	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search facts by meaning, text, or both",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, _ := cmd.Flags().GetString("strategy")
		topK, _ := cmd.Flags().GetInt("top-k")
		minSimilarity, _ := cmd.Flags().GetFloat64("min-similarity")
		vectorWeight, _ := cmd.Flags().GetFloat64("vector-weight")
		textWeight, _ := cmd.Flags().GetFloat64("text-weight")
		person, _ := cmd.Flags().GetString("person")

		return withEngine(func(ctx context.Context, client *relato.Client) error {
			switch strategy {
			case "vector":
				results, err := client.VectorSearchFacts(ctx, args[0], topK, minSimilarity)
				if err != nil {
					return err
				}
				return printJSON(results)
			case "text":
				results, err := client.TextSearchFacts(ctx, args[0], person, topK)
				if err != nil {
					return err
				}
				return printJSON(results)
			case "", "hybrid":
				results, err := client.HybridSearchFacts(ctx, args[0], search.HybridOptions{
					TopK:          topK,
					VectorWeight:  vectorWeight,
					TextWeight:    textWeight,
					MinSimilarity: minSimilarity,
				})
				if err != nil {
					return err
				}
				return printJSON(results)
			default:
				return fmt.Errorf("unknown strategy %q", strategy)
			}
		})
	},
}

var searchPeopleCmd = &cobra.Command{
	Use:   "search-people <query>",
	Short: "Find the people most relevant to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top-k")
		minFactMatches, _ := cmd.Flags().GetInt("min-fact-matches")

		return withEngine(func(ctx context.Context, client *relato.Client) error {
			matches, err := client.SearchPeople(ctx, args[0], topK, minFactMatches)
			if err != nil {
				return err
			}
			return printJSON(matches)
		})
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(searchPeopleCmd)

	searchCmd.Flags().String("strategy", "hybrid", "search strategy (vector, text, hybrid)")
	searchCmd.Flags().Int("top-k", 10, "maximum results")
	searchCmd.Flags().Float64("min-similarity", 0, "vector similarity threshold")
	searchCmd.Flags().Float64("vector-weight", 0, "hybrid vector weight")
	searchCmd.Flags().Float64("text-weight", 0, "hybrid text weight")
	searchCmd.Flags().String("person", "", "restrict text search to one person")

	searchPeopleCmd.Flags().Int("top-k", 5, "maximum people")
	searchPeopleCmd.Flags().Int("min-fact-matches", 1, "minimum matching facts per person")
}
