package relato

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/soundprediction/relato"
	"github.com/spf13/cobra"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage people in the graph",
}

var addPersonCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a person, or update an existing person of the same name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		properties, err := parseProperties(cmd)
		if err != nil {
			return err
		}
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			person, err := client.AddPerson(ctx, args[0], properties)
			if err != nil {
				return err
			}
			return printJSON(person)
		})
	},
}

var showPersonCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a person with facts, entities and relationships",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			person, err := client.GetPerson(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(person)
		})
	},
}

var listPeopleCmd = &cobra.Command{
	Use:   "list",
	Short: "List people, optionally filtered by partial name",
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, _ := cmd.Flags().GetString("name")
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			if partial != "" {
				people, err := client.FindPeople(ctx, partial)
				if err != nil {
					return err
				}
				return printJSON(people)
			}
			people, err := client.GetAllPeople(ctx)
			if err != nil {
				return err
			}
			return printJSON(people)
		})
	},
}

var deletePersonCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a person and all of their facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			if err := client.DeletePerson(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			stats, err := client.Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(stats)
		})
	},
}

var initGraphCmd = &cobra.Command{
	Use:   "init",
	Short: "Create graph constraints and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, client *relato.Client) error {
			if err := client.CreateIndices(ctx); err != nil {
				return err
			}
			fmt.Println("Indices created")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(initGraphCmd)

	peopleCmd.AddCommand(addPersonCmd)
	peopleCmd.AddCommand(showPersonCmd)
	peopleCmd.AddCommand(listPeopleCmd)
	peopleCmd.AddCommand(deletePersonCmd)

	addPersonCmd.Flags().String("properties", "", "person properties as a JSON object")
	listPeopleCmd.Flags().String("name", "", "partial name filter")
}

func parseProperties(cmd *cobra.Command) (map[string]any, error) {
	raw, _ := cmd.Flags().GetString("properties")
	if raw == "" {
		return nil, nil
	}
	var properties map[string]any
	if err := json.Unmarshal([]byte(raw), &properties); err != nil {
		return nil, fmt.Errorf("invalid properties JSON: %w", err)
	}
	return properties, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
