// Package derive computes per-task and aggregate sales metrics.
//
// Every function here is pure: the same task collection always yields the
// same result. Nothing reads the clock or a random source.
package derive

import (
	"math"

	"github.com/watchfire-io/salesboard/internal/models"
)

// ReferenceRevenuePerHour is the hourly revenue that counts as 100%
// time efficiency.
const ReferenceRevenuePerHour = 100.0

// Grade thresholds on average ROI, best first. Anything below the last
// band is GradeNeedsImprovement.
var gradeBands = []struct {
	min   float64
	grade models.Grade
}{
	{200, models.GradeExcellent},
	{100, models.GradeGood},
	{50, models.GradeAverage},
}

// ROI returns revenue earned per hour invested. The second result is false
// when ROI is not computable (non-positive time or a non-finite result).
func ROI(t models.Task) (float64, bool) {
	if !(t.TimeTaken > 0) {
		return 0, false
	}
	roi := t.Revenue / t.TimeTaken
	if math.IsNaN(roi) || math.IsInf(roi, 0) {
		return 0, false
	}
	return roi, true
}

// RevenuePerHour returns revenue divided by time taken, or 0 when time is
// not positive.
func RevenuePerHour(t models.Task) float64 {
	if !(t.TimeTaken > 0) {
		return 0
	}
	return t.Revenue / t.TimeTaken
}

// TotalRevenue sums revenue over tasks.
func TotalRevenue(tasks []models.Task) float64 {
	var sum float64
	for _, t := range tasks {
		sum += t.Revenue
	}
	return sum
}

// TotalTimeTaken sums hours over tasks.
func TotalTimeTaken(tasks []models.Task) float64 {
	var sum float64
	for _, t := range tasks {
		sum += t.TimeTaken
	}
	return sum
}

// AggregateRevenuePerHour is total revenue over total hours, 0 when no time
// has been logged.
func AggregateRevenuePerHour(tasks []models.Task) float64 {
	hours := TotalTimeTaken(tasks)
	if !(hours > 0) {
		return 0
	}
	return TotalRevenue(tasks) / hours
}

// TimeEfficiencyPct expresses aggregate revenue per hour as a percentage of
// ReferenceRevenuePerHour. It is not capped at 100.
func TimeEfficiencyPct(tasks []models.Task) float64 {
	return AggregateRevenuePerHour(tasks) / ReferenceRevenuePerHour * 100
}

// AverageROI is the mean ROI over tasks whose ROI is defined, 0 if none is.
func AverageROI(tasks []models.Task) float64 {
	var sum float64
	var n int
	for _, t := range tasks {
		if roi, ok := ROI(t); ok {
			sum += roi
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Grade maps an average ROI onto a performance grade.
func Grade(averageROI float64) models.Grade {
	for _, band := range gradeBands {
		if averageROI >= band.min {
			return band.grade
		}
	}
	return models.GradeNeedsImprovement
}

// WithDerived attaches computed fields to a task.
func WithDerived(t models.Task) models.DerivedTask {
	d := models.DerivedTask{
		Task:           t.Clone(),
		RevenuePerHour: RevenuePerHour(t),
	}
	if roi, ok := ROI(t); ok {
		d.ROI = &roi
	}
	return d
}

// Compute builds the aggregate metrics snapshot for tasks.
func Compute(tasks []models.Task) models.Metrics {
	if len(tasks) == 0 {
		return models.EmptyMetrics()
	}
	avg := AverageROI(tasks)
	return models.Metrics{
		TotalRevenue:      TotalRevenue(tasks),
		TotalTimeTaken:    TotalTimeTaken(tasks),
		TimeEfficiencyPct: TimeEfficiencyPct(tasks),
		RevenuePerHour:    AggregateRevenuePerHour(tasks),
		AverageROI:        avg,
		PerformanceGrade:  Grade(avg),
	}
}
