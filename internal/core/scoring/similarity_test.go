package scoring

import (
	"math"
	"testing"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.TermVector
		want float64
	}{
		{name: "identical", a: domain.TermVector{1, 2, 3}, b: domain.TermVector{1, 2, 3}, want: 1},
		{name: "scaled", a: domain.TermVector{1, 1}, b: domain.TermVector{5, 5}, want: 1},
		{name: "orthogonal", a: domain.TermVector{1, 0}, b: domain.TermVector{0, 1}, want: 0},
		{name: "zero norm", a: domain.TermVector{0, 0}, b: domain.TermVector{1, 1}, want: 0},
		{name: "negative clamped", a: domain.TermVector{1, 0}, b: domain.TermVector{-1, 0}, want: 0},
		{name: "length mismatch", a: domain.TermVector{1}, b: domain.TermVector{1, 0}, want: 0},
		{name: "empty", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > eps {
				t.Fatalf("CosineSimilarity() = %f, want %f", got, tc.want)
			}
			if back := CosineSimilarity(tc.b, tc.a); math.Abs(back-got) > eps {
				t.Fatalf("not symmetric: %f vs %f", got, back)
			}
		})
	}
}

func TestSetOverlapIsAsymmetric(t *testing.T) {
	small := "Go Kubernetes"
	large := "Go Kubernetes Terraform AWS"

	if got := SetOverlap(small, large); got != 1 {
		t.Fatalf("SetOverlap(small, large) = %f, want 1", got)
	}
	if got := SetOverlap(large, small); got != 0.5 {
		t.Fatalf("SetOverlap(large, small) = %f, want 0.5", got)
	}
}

func TestSetOverlapCollapsesDuplicatesAndKeepsCase(t *testing.T) {
	if got := SetOverlap("go go go Rust", "go"); got != 0.5 {
		t.Fatalf("expected duplicates collapsed, got %f", got)
	}
	if got := SetOverlap("Go", "go"); got != 0 {
		t.Fatalf("expected case-sensitive comparison, got %f", got)
	}
}

func TestSetOverlapEmptyFirstText(t *testing.T) {
	if got := SetOverlap("", "some text"); got != 0 {
		t.Fatalf("expected 0 for empty first text, got %f", got)
	}
	if got := SetOverlap("some text", ""); got != 0 {
		t.Fatalf("expected 0 for empty second text, got %f", got)
	}
}
