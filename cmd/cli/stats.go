package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

func (c *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [date]",
		Short: "Show a day's totals against the calorie target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				p, err := svc.DailyProgress(ctx, dateArg(svc, args))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Date:      %s\n", p.Date)
				fmt.Fprintf(out, "Calories:  %g / %d (%d%%)\n", p.TotalCalories, p.CalorieTarget, p.CalorieProgress)
				fmt.Fprintf(out, "Protein:   %gg\n", p.TotalProtein)
				fmt.Fprintf(out, "Carbs:     %gg\n", p.TotalCarbs)
				fmt.Fprintf(out, "Fat:       %gg\n", p.TotalFat)
				fmt.Fprintf(out, "Exercises: %d\n", p.ExerciseCount)
				return nil
			})
		},
	}
}

func (c *cli) weeklyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly",
		Short: "Summarise the last seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				s, err := svc.WeeklyStats(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Days tracked:    %d\n", s.DaysTracked)
				fmt.Fprintf(out, "Streak:          %d day(s)\n", s.StreakDays)
				fmt.Fprintf(out, "Exercises:       %d\n", s.TotalExercises)
				fmt.Fprintf(out, "Avg calories:    %.0f\n", s.AvgCalories)
				fmt.Fprintf(out, "Avg protein:     %.1fg\n", s.AvgProtein)
				return nil
			})
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List exercises and daily calories over recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				h, err := svc.ProgressHistory(ctx, days)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "DATE\tCALORIES\tEXERCISES")
				for _, d := range h.DailyStats {
					fmt.Fprintf(out, "%s\t%g\t%d\n", d.Date, d.Calories, d.ExerciseCount)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, "DATE\tEXERCISE\tSETS\tREPS\tWEIGHT")
				for _, e := range h.Exercises {
					weight := "-"
					if e.Weight != nil {
						weight = fmt.Sprintf("%gkg", *e.Weight)
					}
					fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%s\n", e.Date, e.Name, e.Sets, e.Reps, weight)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to look back")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or create the user profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				p, err := svc.GetProfile(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if p == nil {
					fmt.Fprintln(out, "No profile yet. Create one with: fittrack-cli profile create")
					return nil
				}
				fmt.Fprintf(out, "Name:    %s\n", p.Name)
				fmt.Fprintf(out, "Height:  %gcm\n", p.Height)
				fmt.Fprintf(out, "Weight:  %gkg\n", p.Weight)
				if p.Age != nil {
					fmt.Fprintf(out, "Age:     %d\n", *p.Age)
				}
				fmt.Fprintf(out, "Goal:    %s\n", p.FitnessGoal)
				if p.DailyCalorieTarget != nil {
					fmt.Fprintf(out, "Target:  %d kcal\n", *p.DailyCalorieTarget)
				}
				return nil
			})
		},
	}

	var (
		in     tracker.ProfileInput
		age    int
		target int
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("age") {
				in.Age = &age
			}
			if cmd.Flags().Changed("target") {
				in.DailyCalorieTarget = &target
			}
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				p, err := svc.CreateProfile(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created profile for %s with a daily target of %d kcal\n", p.Name, *p.DailyCalorieTarget)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Name")
	create.Flags().Float64Var(&in.Height, "height", 0, "Height in cm")
	create.Flags().Float64Var(&in.Weight, "weight", 0, "Weight in kg")
	create.Flags().IntVar(&age, "age", 0, "Age in years")
	create.Flags().StringVar(&in.FitnessGoal, "goal", database.GoalMaintain, "lose_weight, build_muscle or maintain")
	create.Flags().IntVar(&target, "target", 0, "Daily calorie target (suggested from weight and goal when omitted)")
	create.MarkFlagRequired("name")
	create.MarkFlagRequired("height")
	create.MarkFlagRequired("weight")

	cmd.AddCommand(show, create)
	return cmd
}

func (c *cli) plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect saved workout plans",
	}

	var createdBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List workout plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *tracker.Service, _ *database.DB) error {
				var (
					plans []*database.WorkoutPlan
					err   error
				)
				if createdBy != "" {
					plans, err = svc.ListWorkoutPlansByCreator(ctx, createdBy)
				} else {
					plans, err = svc.ListWorkoutPlans(ctx)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(plans) == 0 {
					fmt.Fprintln(out, "No workout plans.")
					return nil
				}
				for _, p := range plans {
					fmt.Fprintf(out, "%s (%s, by %s)\n", p.Name, p.ID, p.CreatedBy)
					for _, e := range p.Exercises {
						fmt.Fprintf(out, "  %s: %d x %d, rest %ds\n", e.Name, e.Sets, e.Reps, e.RestSeconds)
					}
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&createdBy, "created-by", "", "Only plans by butler or trainer")

	cmd.AddCommand(list)
	return cmd
}
