package rewriter

import (
	"testing"

	"sql-remap/internal/model"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		stmt     string
		outcomes []model.Outcome
		expected string
	}{
		{
			name: "Single substitution",
			stmt: "SELECT x FROM s.t",
			outcomes: []model.Outcome{
				{Kind: model.KindMapped, Span: model.Span{Start: 14, End: 17}, Replacement: "s2.t2"},
			},
			expected: "SELECT x FROM s2.t2",
		},
		{
			name: "Multiple substitutions applied rightmost first",
			stmt: "SELECT A.C1 FROM DB.S.T AS A",
			outcomes: []model.Outcome{
				{Kind: model.KindMapped, Span: model.Span{Start: 7, End: 11}, Replacement: "T2.K1"},
				{Kind: model.KindMapped, Span: model.Span{Start: 17, End: 23}, Replacement: "S2.T2"},
			},
			expected: "SELECT T2.K1 FROM S2.T2 AS A",
		},
		{
			name: "Order of outcomes does not matter",
			stmt: "SELECT A.C1 FROM DB.S.T AS A",
			outcomes: []model.Outcome{
				{Kind: model.KindMapped, Span: model.Span{Start: 17, End: 23}, Replacement: "S2.T2"},
				{Kind: model.KindMapped, Span: model.Span{Start: 7, End: 11}, Replacement: "T2.K1"},
			},
			expected: "SELECT T2.K1 FROM S2.T2 AS A",
		},
		{
			name: "Unmapped and ambiguous spans untouched",
			stmt: "SELECT A.C1, A.C2 FROM DB.S.T AS A",
			outcomes: []model.Outcome{
				{Kind: model.KindUnmapped, Span: model.Span{Start: 7, End: 11}},
				{Kind: model.KindAmbiguous, Span: model.Span{Start: 13, End: 17}},
			},
			expected: "SELECT A.C1, A.C2 FROM DB.S.T AS A",
		},
		{
			name:     "No outcomes",
			stmt:     "SELECT 1 FROM s.t",
			outcomes: nil,
			expected: "SELECT 1 FROM s.t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.stmt, tt.outcomes); got != tt.expected {
				t.Errorf("Apply() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestApply_Deterministic(t *testing.T) {
	stmt := "SELECT A.C1 FROM DB.S.T AS A"
	outcomes := []model.Outcome{
		{Kind: model.KindMapped, Span: model.Span{Start: 7, End: 11}, Replacement: "T2.K1"},
		{Kind: model.KindMapped, Span: model.Span{Start: 17, End: 23}, Replacement: "S2.T2"},
	}

	first := Apply(stmt, outcomes)
	for i := 0; i < 10; i++ {
		if got := Apply(stmt, outcomes); got != first {
			t.Fatalf("Apply() not deterministic: %q vs %q", got, first)
		}
	}
}
