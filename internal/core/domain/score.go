package domain

import (
	"fmt"
	"math"
)

type Category string

const (
	CategoryBad     Category = "bad"
	CategoryAverage Category = "average"
	CategoryGood    Category = "good"
)

const (
	averageThreshold = 40.0
	goodThreshold    = 70.0
)

// TermVector is a weighted term-frequency row over a corpus vocabulary.
type TermVector []float64

type RankResult struct {
	Percentage float64  `json:"percentage"`
	Display    string   `json:"display"`
	Category   Category `json:"category"`
	ResumeText string   `json:"resume_text,omitempty"`
}

// CompareResult is the share of document 1's distinct words also found in document 2.
type CompareResult struct {
	Percentage float64 `json:"percentage"`
	Display    string  `json:"display"`
}

// Band maps a percentage to its category. Lower bounds are inclusive.
func Band(percentage float64) (Category, error) {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return "", WrapError(ErrScoreOutOfRange, "band", fmt.Errorf("percentage %v outside [0,100]", percentage))
	}
	switch {
	case percentage < averageThreshold:
		return CategoryBad, nil
	case percentage < goodThreshold:
		return CategoryAverage, nil
	default:
		return CategoryGood, nil
	}
}

func ToPercentage(similarity float64) float64 {
	return similarity * 100
}

func FormatPercentage(percentage float64) string {
	return fmt.Sprintf("%.2f%%", percentage)
}
