package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/suvamneog/foodanalyserr/internal/plans"
	"github.com/suvamneog/foodanalyserr/internal/projection"
)

// Generator renders a saved plan as PDF or CSV
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders plan in the given format.
func (g *Generator) Generate(plan *plans.PlanDTO, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(plan)
	case FormatCSV:
		return g.generateCSV(plan.Result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

var csvHeader = []string{"week", "weight", "bodyfat", "calories", "protein", "carbs", "fats"}

// generateCSV пишет одну строку на неделю, веса в единицах профиля
func (g *Generator) generateCSV(result projection.Plan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i, progress := range result.WeeklyProgress {
		cal, ok := result.Week(i + 1)
		if !ok {
			return nil, fmt.Errorf("week %d has no calorie entry", i+1)
		}
		row := []string{
			strconv.Itoa(progress.Week),
			strconv.FormatFloat(progress.Weight, 'f', 1, 64),
			strconv.FormatFloat(progress.BodyFatPct, 'f', 1, 64),
			strconv.Itoa(cal.Calories),
			strconv.Itoa(cal.ProteinG),
			strconv.Itoa(cal.CarbsG),
			strconv.Itoa(cal.FatsG),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const fontName = "Arial"

func (g *Generator) generatePDF(plan *plans.PlanDTO) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	result := plan.Result
	unit := result.WeightUnit.WeightLabel()

	pdf.AddPage()

	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, tr(plan.Name))
	pdf.Ln(10)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Created %s", plan.CreatedAt.UTC().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont(fontName, "B", 13)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Plan type: %s", result.PlanType),
		fmt.Sprintf("Maintenance calories: %d kcal", result.MaintenanceCalories),
		fmt.Sprintf("Daily calories: %d kcal", result.DailyCalories),
		fmt.Sprintf("Protein goal: %d g", result.ProteinGoal),
		fmt.Sprintf("Goal weight: %.1f %s", result.GoalWeight, unit),
		fmt.Sprintf("Duration: %d weeks", result.TotalWeeks),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}

	if len(result.Warnings) > 0 {
		pdf.Ln(4)
		pdf.SetFont(fontName, "B", 11)
		pdf.Cell(0, 7, "Warnings")
		pdf.Ln(7)
		pdf.SetFont(fontName, "", 9)
		for _, w := range result.Warnings {
			pdf.MultiCell(0, 5, "- "+tr(w), "", "L", false)
		}
	}

	pdf.Ln(6)
	pdf.SetFont(fontName, "B", 13)
	pdf.Cell(0, 8, "Weekly plan")
	pdf.Ln(8)

	drawWeeklyTable(pdf, result, unit)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawWeeklyTable(pdf *gofpdf.Fpdf, result projection.Plan, unit string) {
	headers := []string{"Week", "Weight (" + unit + ")", "Body fat %", "Calories", "Protein g", "Carbs g", "Fats g"}
	widths := []float64{16, 28, 24, 26, 24, 24, 24}

	pdf.SetFont(fontName, "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontName, "", 9)
	for i, progress := range result.WeeklyProgress {
		cal, _ := result.Week(i + 1)
		cells := []string{
			strconv.Itoa(progress.Week),
			fmt.Sprintf("%.1f", progress.Weight),
			fmt.Sprintf("%.1f", progress.BodyFatPct),
			strconv.Itoa(cal.Calories),
			strconv.Itoa(cal.ProteinG),
			strconv.Itoa(cal.CarbsG),
			strconv.Itoa(cal.FatsG),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
