package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
	"fittrack/internal/worker"
)

func (c *cli) mealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Manage meal logs",
	}

	var (
		in          tracker.MealLogInput
		quantity    string
		recalculate bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Log a meal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				if in.Date == "" {
					in.Date = svc.Today()
				}
				if quantity != "" {
					in.Quantity = &quantity
				}

				m, err := svc.CreateMealLog(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s: %s - %g cal | %gg protein | %gg carbs | %gg fat (%s)\n",
					m.MealType, m.FoodName, m.Calories, m.Protein, m.Carbs, m.Fat, m.ID)

				if recalculate {
					return recalculateDate(ctx, cmd, svc, m.Date)
				}
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Date, "date", "", "Date as YYYY-MM-DD (default today)")
	add.Flags().StringVar(&in.MealType, "type", "", "breakfast, lunch, dinner or snack")
	add.Flags().StringVar(&in.FoodName, "food", "", "What was eaten")
	add.Flags().StringVar(&quantity, "quantity", "", "Free-form portion description")
	add.Flags().Float64Var(&in.Calories, "calories", 0, "Calories")
	add.Flags().Float64Var(&in.Protein, "protein", 0, "Protein in grams")
	add.Flags().Float64Var(&in.Carbs, "carbs", 0, "Carbohydrates in grams")
	add.Flags().Float64Var(&in.Fat, "fat", 0, "Fat in grams")
	add.Flags().BoolVar(&recalculate, "recalculate", false, "Refresh the daily log afterwards")
	add.MarkFlagRequired("type")
	add.MarkFlagRequired("food")

	list := &cobra.Command{
		Use:   "list [date]",
		Short: "List the meals of a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				meals, err := svc.MealLogsByDate(ctx, dateArg(svc, args))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ID\tTYPE\tFOOD\tCALORIES\tPROTEIN\tCARBS\tFAT")
				for _, m := range meals {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%g\t%g\t%g\t%g\n", m.ID, m.MealType, m.FoodName, m.Calories, m.Protein, m.Carbs, m.Fat)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (c *cli) exerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Manage exercise logs",
	}

	var (
		in          tracker.ExerciseLogInput
		weight      float64
		recalculate bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Log an exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				if in.Date == "" {
					in.Date = svc.Today()
				}
				if cmd.Flags().Changed("weight") {
					in.Weight = &weight
				}

				e, err := svc.CreateExerciseLog(ctx, in)
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("Logged: %s - %d sets x %d reps", e.ExerciseName, e.Sets, e.Reps)
				if e.Weight != nil {
					msg += fmt.Sprintf(" @ %gkg", *e.Weight)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", msg, e.ID)

				if recalculate {
					return recalculateDate(ctx, cmd, svc, e.Date)
				}
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Date, "date", "", "Date as YYYY-MM-DD (default today)")
	add.Flags().StringVar(&in.ExerciseName, "name", "", "Exercise name")
	add.Flags().IntVar(&in.Sets, "sets", 3, "Number of sets")
	add.Flags().IntVar(&in.Reps, "reps", 10, "Repetitions per set")
	add.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	add.Flags().BoolVar(&recalculate, "recalculate", false, "Refresh the daily log afterwards")
	add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}

func (c *cli) recalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc [date]",
		Short: "Rebuild the daily log of a date from its meals and exercises",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				return recalculateDate(ctx, cmd, svc, dateArg(svc, args))
			})
		},
	}
}

func (c *cli) reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recalculate every date whose daily log is stale or missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, db *database.DB) error {
				total, err := worker.NewWorker(db, svc, 0).Drain(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d date(s)\n", total)
				return nil
			})
		},
	}
}

func recalculateDate(ctx context.Context, cmd *cobra.Command, svc *tracker.Service, date string) error {
	id, err := svc.Recalculate(ctx, date)
	if err != nil {
		return err
	}
	d, err := svc.DailyLogByDate(ctx, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Daily log %s (%s): %g cal, %g protein, %g carbs, %g fat, %d exercises\n",
		d.Date, id, d.TotalCalories, d.TotalProtein, d.TotalCarbs, d.TotalFat, d.ExerciseCount)
	return nil
}
