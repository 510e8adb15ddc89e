package models

// Grade buckets the average ROI of a collection.
type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeGood             Grade = "Good"
	GradeAverage          Grade = "Average"
	GradeNeedsImprovement Grade = "Needs Improvement"
)

// DerivedTask is a Task plus values computed from it. Never persisted.
type DerivedTask struct {
	Task `yaml:",inline"`
	ROI            *float64 `json:"roi" yaml:"roi"` // nil when not computable
	RevenuePerHour float64  `json:"revenuePerHour" yaml:"revenuePerHour"`
}

// Metrics is an aggregate snapshot over a task collection.
type Metrics struct {
	TotalRevenue      float64 `json:"totalRevenue" yaml:"totalRevenue"`
	TotalTimeTaken    float64 `json:"totalTimeTaken" yaml:"totalTimeTaken"`
	TimeEfficiencyPct float64 `json:"timeEfficiencyPct" yaml:"timeEfficiencyPct"`
	RevenuePerHour    float64 `json:"revenuePerHour" yaml:"revenuePerHour"`
	AverageROI        float64 `json:"averageROI" yaml:"averageROI"`
	PerformanceGrade  Grade   `json:"performanceGrade" yaml:"performanceGrade"`
}

// EmptyMetrics returns the baseline for an empty collection.
func EmptyMetrics() Metrics {
	return Metrics{PerformanceGrade: GradeNeedsImprovement}
}
