package command

import (
	"fmt"
	"strings"

	"recipehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Find recipes by the ingredients you have",
}

var availableCmd = &cobra.Command{
	Use:     "available",
	Short:   "List recipes you can cook with nothing missing",
	Example: `  recipehub recipe available --ingredient 1,2,5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringSlice("ingredient")
		ids, err := parseIngredientIDs(raw)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		recipes, err := client.NewHTTPClient(apiURL).AvailableRecipes(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to query recipes: %w", err)
		}
		if len(recipes) == 0 {
			fmt.Println("Nothing can be cooked from those ingredients.")
			return nil
		}
		for _, r := range recipes {
			fmt.Printf("%d\t%s\trating %s\n", r.ID, r.Name, formatRating(r.Rating))
		}
		return nil
	},
}

var rankedCmd = &cobra.Command{
	Use:     "ranked",
	Short:   "Rank recipes by how many ingredients are missing",
	Example: `  recipehub recipe ranked --ingredient 1 --ingredient 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringSlice("ingredient")
		ids, err := parseIngredientIDs(raw)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		ranked, err := client.NewHTTPClient(apiURL).RankedRecipes(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to rank recipes: %w", err)
		}
		if len(ranked) == 0 {
			fmt.Println("No recipe uses any of those ingredients.")
			return nil
		}
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		fmt.Printf("%-6s %-8s %s\n", "ID", "MISSING", "NAME")
		for _, r := range ranked {
			fmt.Printf("%-6d %-8d %s\n", r.ID, r.Unlikeness, r.Name)
		}
		return nil
	},
}

var missingCmd = &cobra.Command{
	Use:   "missing [recipe-id]",
	Short: "Show what a recipe needs that you do not have",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseID(args[0], "recipe")
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetStringSlice("ingredient")
		ids, err := parseIngredientIDs(raw)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		missing, err := client.NewHTTPClient(apiURL).MissingIngredients(ctx, recipeID, ids)
		if err != nil {
			return fmt.Errorf("failed to query recipe: %w", err)
		}
		if len(missing) == 0 {
			fmt.Println("✓ You have everything.")
			return nil
		}
		fmt.Printf("Missing %d ingredient(s):\n", len(missing))
		for _, m := range missing {
			fmt.Printf("  - %s: %g %s\n", m.IngredientName, m.Amount, m.MeasureName)
		}
		return nil
	},
}

var showRecipeCmd = &cobra.Command{
	Use:   "show [recipe-id]",
	Short: "Show a recipe with its ingredient lines and rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseID(args[0], "recipe")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		r, err := client.NewHTTPClient(apiURL).GetRecipe(ctx, recipeID)
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		fmt.Printf("%s (#%d)\n", r.Name, r.ID)
		if r.CookTime != nil {
			fmt.Printf("Cook time: %s\n", *r.CookTime)
		}
		votes := 0
		if r.VoterTurnout != nil {
			votes = *r.VoterTurnout
		}
		fmt.Printf("Rating: %s (%d votes)\n", formatRating(r.Rating), votes)
		fmt.Println(strings.Repeat("-", 40))
		for _, l := range r.RecipeIngredients {
			fmt.Printf("ingredient %d: %g (measure %d)\n", l.IngredientID, l.Amount, l.MeasureID)
		}
		return nil
	},
}

func init() {
	recipeCmd.AddCommand(availableCmd)
	recipeCmd.AddCommand(rankedCmd)
	recipeCmd.AddCommand(missingCmd)
	recipeCmd.AddCommand(showRecipeCmd)

	for _, c := range []*cobra.Command{availableCmd, rankedCmd, missingCmd} {
		c.Flags().StringSliceP("ingredient", "i", nil, "Ingredient id you have (repeatable or comma separated)")
		_ = c.MarkFlagRequired("ingredient")
	}
	rankedCmd.Flags().Int("limit", 0, "Show at most this many recipes")
}
