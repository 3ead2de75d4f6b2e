// Command plancalc runs the goal projection engine from the command line and
// prints the 16 week plan.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/units"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitValidation  = 2
	exitCalculation = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plancalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		unit    = fs.String("unit", "metric", "weight unit: metric or imperial")
		weight  = fs.Float64("weight", 0, "current weight (kg or lb)")
		height  = fs.Float64("height", 0, "height (cm or in)")
		bf      = fs.Float64("bodyfat", 0, "current body fat %")
		goalBF  = fs.Float64("goal-bodyfat", 0, "goal body fat %")
		age     = fs.Int("age", 0, "age in years")
		gender  = fs.String("gender", "male", "male or female")
		act     = fs.Float64("activity", 1.2, "activity multiplier (1.2, 1.375, 1.55, 1.725, 1.9)")
		adj     = fs.Float64("adjustment", 20, "calorie adjustment %, positive for a deficit")
		protein = fs.Float64("protein", 2.0, "protein multiplier in g per kg lean mass (1.6, 2.0, 2.2, 2.5)")
		formula = fs.String("formula", string(projection.KatchMcArdle), "katch-mcardle or mifflin-st-jeor")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	plan, err := projection.Calculate(projection.Profile{
		WeightUnit:           units.System(*unit),
		CurrentWeight:        *weight,
		Height:               *height,
		CurrentBodyFatPct:    *bf,
		GoalBodyFatPct:       *goalBF,
		Age:                  *age,
		Gender:               projection.Gender(*gender),
		ActivityMultiplier:   *act,
		CalorieAdjustmentPct: *adj,
		ProteinMultiplier:    *protein,
		BMRFormula:           projection.Formula(*formula),
	})

	var verr *projection.ValidationError
	var cerr *projection.CalculationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(stderr, "invalid input:")
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(stderr, "  %s: %s\n", field, verr.Fields[field])
		}
		return exitValidation
	case errors.As(err, &cerr):
		fmt.Fprintf(stderr, "cannot build plan: %s\n", cerr)
		return exitCalculation
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCalculation
	}

	printPlan(stdout, plan)
	return exitOK
}

func printPlan(w io.Writer, plan projection.Plan) {
	label := plan.WeightUnit.WeightLabel()

	fmt.Fprintf(w, "Plan type:    %s\n", plan.PlanType)
	fmt.Fprintf(w, "Maintenance:  %d kcal\n", plan.MaintenanceCalories)
	fmt.Fprintf(w, "Daily target: %d kcal\n", plan.DailyCalories)
	fmt.Fprintf(w, "Protein goal: %d g\n", plan.ProteinGoal)
	fmt.Fprintf(w, "Goal weight:  %.1f %s\n", plan.GoalWeight, label)
	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "week\tweight (%s)\tbody fat %%\tkcal\tprotein\tcarbs\tfats\t\n", label)
	for i, progress := range plan.WeeklyProgress {
		cal := plan.WeeklyCaloriePlan[i]
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%d\t%d\t%d\t%d\t\n",
			progress.Week, progress.Weight, progress.BodyFatPct, cal.Calories, cal.ProteinG, cal.CarbsG, cal.FatsG)
	}
	tw.Flush()
}
