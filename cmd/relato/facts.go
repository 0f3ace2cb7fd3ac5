package relato

import (
	"context"
	"fmt"
	"strconv"

	"github.com/soundprediction/relato"
	"github.com/spf13/cobra"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage facts about people",
}

var addFactCmd = &cobra.Command{
	Use:   "add <person> <text>",
	Short: "Add a fact and infer connections from its text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			result, err := client.AddFact(ctx, args[0], args[1], category)
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var listFactsCmd = &cobra.Command{
	Use:   "list <person>",
	Short: "List a person's facts in creation order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			if category != "" {
				facts, err := client.GetFactsByCategory(ctx, args[0], category)
				if err != nil {
					return err
				}
				return printJSON(facts)
			}
			facts, err := client.GetFacts(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(facts)
		})
	},
}

var deleteFactCmd = &cobra.Command{
	Use:   "delete <person> <number>",
	Short: "Delete a fact by its 1-based number, or all facts with --all",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			if all {
				deleted, err := client.DeleteAllFacts(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Deleted %d facts\n", deleted)
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("fact number required unless --all is set")
			}
			ordinal, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid fact number %q: %w", args[1], err)
			}
			fact, err := client.DeleteFact(ctx, args[0], ordinal)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted fact %d: %s\n", ordinal, fact.Text)
			return nil
		})
	},
}

var updateFactCmd = &cobra.Command{
	Use:   "recategorize <person> <number> <category>",
	Short: "Change a fact's category by its 1-based number",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ordinal, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid fact number %q: %w", args[1], err)
		}
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			fact, err := client.UpdateFactCategory(ctx, args[0], ordinal, args[2])
			if err != nil {
				return err
			}
			return printJSON(fact)
		})
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Compute embeddings for facts that are missing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			updated, failed, err := client.BackfillEmbeddings(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Backfill complete: %d updated, %d failed\n", updated, failed)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(backfillCmd)

	factsCmd.AddCommand(addFactCmd)
	factsCmd.AddCommand(listFactsCmd)
	factsCmd.AddCommand(deleteFactCmd)
	factsCmd.AddCommand(updateFactCmd)

	addFactCmd.Flags().String("category", "", "fact category (default general)")
	listFactsCmd.Flags().String("category", "", "filter by category")
	deleteFactCmd.Flags().Bool("all", false, "delete every fact the person owns")
}
