package command

import (
	"fmt"
	"strconv"

	"recipehub/cmd/cli/command/client"
	"recipehub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score management commands",
	Long:  `Score recipes: submit or change your score, withdraw it, list scores.`,
}

var rateCmd = &cobra.Command{
	Use:   "rate [recipe-id] [score]",
	Short: "Score a recipe (0-10); scoring again replaces your score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseID(args[0], "recipe")
		if err != nil {
			return err
		}
		score, err := strconv.Atoi(args[1])
		if err != nil || score < 0 || score > 10 {
			return fmt.Errorf("score must be a whole number between 0 and 10")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		httpClient, err := authenticatedClient(ctx)
		if err != nil {
			return err
		}

		result, err := httpClient.RecordScore(ctx, recipeID, score)
		if err != nil {
			return fmt.Errorf("failed to score recipe: %w", err)
		}

		if result.Created {
			fmt.Println("✓ Score submitted!")
		} else {
			fmt.Println("✓ Score updated!")
		}
		printAggregate(result.Aggregate)
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "delete [score-id]",
	Short: "Withdraw a score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scoreID, err := parseID(args[0], "score")
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		httpClient, err := authenticatedClient(ctx)
		if err != nil {
			return err
		}

		result, err := httpClient.DeleteScore(ctx, scoreID)
		if err != nil {
			return fmt.Errorf("failed to delete score: %w", err)
		}
		fmt.Printf("✓ Score %d deleted.\n", scoreID)
		printAggregate(result.Aggregate)
		return nil
	},
}

var listScoresCmd = &cobra.Command{
	Use:   "list [recipe-id]",
	Short: "List the scores given to a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseID(args[0], "recipe")
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := client.NewHTTPClient(apiURL).ListScores(ctx, recipeID, "", page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list scores: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Println("No scores for this recipe yet.")
			return nil
		}

		fmt.Printf("Scores for recipe %d (Page %d/%d, Total: %d):\n", recipeID, result.Page, result.TotalPages, result.Total)
		for _, s := range result.Data {
			fmt.Printf("#%d\tuser %s\t%d/10\t%s\n", s.ID, s.UserID, s.Score, s.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func printAggregate(agg dto.RatingAggregateResponse) {
	votes := 0
	if agg.VoterTurnout != nil {
		votes = *agg.VoterTurnout
	}
	fmt.Printf("Recipe %d rating: %s (%d votes)\n", agg.RecipeID, formatRating(agg.Rating), votes)
}

func init() {
	scoreCmd.AddCommand(rateCmd)
	scoreCmd.AddCommand(withdrawCmd)
	scoreCmd.AddCommand(listScoresCmd)

	listScoresCmd.Flags().Int("page", 1, "Page number")
	listScoresCmd.Flags().Int("page-size", 20, "Number of scores per page")
}
