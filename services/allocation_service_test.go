package services

import (
	"math"
	"testing"

	"pipsplit-backend/currency"
)

func usd() currency.Config {
	return currency.LookupOrDefault("USD")
}

func allocatedAmounts(result *AllocationResult) []float64 {
	amounts := make([]float64, len(result.Splits))
	for i, s := range result.Splits {
		amounts[i] = s.AllocatedAmount
	}
	return amounts
}

func sumAllocated(result *AllocationResult) float64 {
	sum := 0.0
	for _, s := range result.Splits {
		sum += s.AllocatedAmount
	}
	return math.Round(sum*100) / 100
}

func TestAllocateAmountMode(t *testing.T) {
	tests := []struct {
		name     string
		input    AllocationInput
		expected []float64
	}{
		{
			name: "Two Equal Splits",
			input: AllocationInput{
				TotalAmount:  100,
				SharedAmount: 100,
				Splits: []SplitInput{
					{OwedByMemberID: "A"},
					{OwedByMemberID: "B"},
				},
			},
			expected: []float64{50, 50},
		},
		{
			name: "Three Equal Splits With Remainder",
			input: AllocationInput{
				TotalAmount:  10,
				SharedAmount: 10,
				Splits: []SplitInput{
					{OwedByMemberID: "A"},
					{OwedByMemberID: "B"},
					{OwedByMemberID: "C"},
				},
			},
			expected: []float64{3.34, 3.33, 3.33},
		},
		{
			name: "Assigned Amounts Plus Shared",
			input: AllocationInput{
				TotalAmount:  100,
				SharedAmount: 40,
				Splits: []SplitInput{
					{OwedByMemberID: "A", AssignedAmount: 40},
					{OwedByMemberID: "B", AssignedAmount: 20},
				},
			},
			expected: []float64{60, 40},
		},
		{
			name: "Proportional Distributed By Assigned Ratio",
			input: AllocationInput{
				TotalAmount:        110,
				ProportionalAmount: 10,
				Splits: []SplitInput{
					{OwedByMemberID: "A", AssignedAmount: 75},
					{OwedByMemberID: "B", AssignedAmount: 25},
				},
			},
			expected: []float64{82.50, 27.50},
		},
		{
			name: "Placeholder Rows Pruned",
			input: AllocationInput{
				TotalAmount:  30,
				SharedAmount: 30,
				Splits: []SplitInput{
					{OwedByMemberID: "A"},
					{},
					{OwedByMemberID: "B"},
					{},
				},
			},
			expected: []float64{15, 15},
		},
	}

	s := NewAllocationService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Allocate(tt.input, usd())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.FullyAllocated {
				t.Fatal("expected fully allocated result")
			}

			amounts := allocatedAmounts(result)
			if len(amounts) != len(tt.expected) {
				t.Fatalf("expected %d splits, got %d", len(tt.expected), len(amounts))
			}
			for i, want := range tt.expected {
				if math.Abs(amounts[i]-want) > 0.001 {
					t.Errorf("split %d: got %.2f, want %.2f", i, amounts[i], want)
				}
			}
			if got := sumAllocated(result); math.Abs(got-tt.input.TotalAmount) > 0.001 {
				t.Errorf("allocated sum %.2f does not equal total %.2f", got, tt.input.TotalAmount)
			}
		})
	}
}

func TestAllocateAdjustsSharedToReconcileTotal(t *testing.T) {
	s := NewAllocationService()

	// Components (shared 10 + assigned 30) do not explain the 100 total, so
	// the shared portion is recomputed to absorb the gap.
	result, err := s.Allocate(AllocationInput{
		TotalAmount:  100,
		SharedAmount: 10,
		Splits: []SplitInput{
			{OwedByMemberID: "A", AssignedAmount: 30},
			{OwedByMemberID: "B"},
		},
	}, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AdjustedSharedAmount != 70 {
		t.Errorf("adjusted shared amount: got %.2f, want 70.00", result.AdjustedSharedAmount)
	}
	if got := sumAllocated(result); got != 100 {
		t.Errorf("allocated sum %.2f does not equal total", got)
	}
}

func TestAllocatePercentageMode(t *testing.T) {
	s := NewAllocationService()

	result, err := s.Allocate(AllocationInput{
		TotalAmount:       150,
		SplitByPercentage: true,
		Splits: []SplitInput{
			{OwedByMemberID: "A", Percentage: 40},
			{OwedByMemberID: "B", Percentage: 35},
			{OwedByMemberID: "C", Percentage: 99}, // ignored: last split is auto-completed
		},
	}, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.FullyAllocated {
		t.Fatal("expected fully allocated result")
	}
	if result.Splits[2].Percentage != 25 {
		t.Errorf("auto-completed percentage: got %.2f, want 25.00", result.Splits[2].Percentage)
	}

	expected := []float64{60, 52.50, 37.50}
	for i, want := range expected {
		if math.Abs(result.Splits[i].AllocatedAmount-want) > 0.001 {
			t.Errorf("split %d: got %.2f, want %.2f", i, result.Splits[i].AllocatedAmount, want)
		}
	}
}

func TestAllocatePercentageModeRemainderWalk(t *testing.T) {
	s := NewAllocationService()

	// Three-way thirds of 100: 33.33 each leaves one cent for index 0.
	result, err := s.Allocate(AllocationInput{
		TotalAmount:       100,
		SplitByPercentage: true,
		Splits: []SplitInput{
			{OwedByMemberID: "A", Percentage: 33.33},
			{OwedByMemberID: "B", Percentage: 33.33},
			{OwedByMemberID: "C"},
		},
	}, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Splits[2].Percentage != 33.34 {
		t.Errorf("auto-completed percentage: got %.2f, want 33.34", result.Splits[2].Percentage)
	}
	if got := sumAllocated(result); got != 100 {
		t.Errorf("allocated sum %.2f does not equal total", got)
	}
}

func TestAllocatePercentageModePrunesMemberlessRows(t *testing.T) {
	s := NewAllocationService()

	// A row with a percentage but no member and no assigned amount is a
	// leftover form row. It is dropped, and the remaining open row absorbs
	// the full remainder to 100.
	result, err := s.Allocate(AllocationInput{
		TotalAmount:       100,
		SplitByPercentage: true,
		Splits: []SplitInput{
			{Percentage: 50},
			{OwedByMemberID: "A", Percentage: 30},
			{OwedByMemberID: "B"},
		},
	}, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Splits) != 2 {
		t.Fatalf("expected 2 splits after pruning, got %d", len(result.Splits))
	}
	if result.Splits[1].Percentage != 70 {
		t.Errorf("auto-completed percentage: got %.2f, want 70", result.Splits[1].Percentage)
	}
	if got := allocatedAmounts(result); got[0] != 30 || got[1] != 70 {
		t.Errorf("allocated amounts: got %v, want [30 70]", got)
	}
}

func TestAllocatePercentageModeRejectsOverHundred(t *testing.T) {
	s := NewAllocationService()

	_, err := s.Allocate(AllocationInput{
		TotalAmount:       100,
		SplitByPercentage: true,
		Splits: []SplitInput{
			{OwedByMemberID: "A", Percentage: 70},
			{OwedByMemberID: "B", Percentage: 60},
			{OwedByMemberID: "C"},
		},
	}, usd())
	if err == nil {
		t.Fatal("expected error when entered percentages exceed 100")
	}
}

func TestAllocateZeroDecimalCurrency(t *testing.T) {
	s := NewAllocationService()
	jpy := currency.LookupOrDefault("JPY")

	result, err := s.Allocate(AllocationInput{
		TotalAmount:  1000,
		SharedAmount: 1000,
		Splits: []SplitInput{
			{OwedByMemberID: "A"},
			{OwedByMemberID: "B"},
			{OwedByMemberID: "C"},
		},
	}, jpy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{334, 333, 333}
	for i, want := range expected {
		if result.Splits[i].AllocatedAmount != want {
			t.Errorf("split %d: got %.0f, want %.0f", i, result.Splits[i].AllocatedAmount, want)
		}
	}
}

func TestAllocateIdempotent(t *testing.T) {
	s := NewAllocationService()
	input := AllocationInput{
		TotalAmount:        77.77,
		SharedAmount:       20,
		ProportionalAmount: 17.77,
		Splits: []SplitInput{
			{OwedByMemberID: "A", AssignedAmount: 25},
			{OwedByMemberID: "B", AssignedAmount: 15},
			{OwedByMemberID: "C"},
		},
	}

	first, err := s.Allocate(input, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Allocate(input, usd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first.Splits {
		if first.Splits[i].AllocatedAmount != second.Splits[i].AllocatedAmount {
			t.Errorf("split %d differs between runs: %.2f vs %.2f",
				i, first.Splits[i].AllocatedAmount, second.Splits[i].AllocatedAmount)
		}
	}
	if got := sumAllocated(first); math.Abs(got-77.77) > 0.001 {
		t.Errorf("allocated sum %.2f does not equal total", got)
	}
}

func TestAllocateZeroTotalIsNoOp(t *testing.T) {
	s := NewAllocationService()

	result, err := s.Allocate(AllocationInput{
		TotalAmount: 0,
		Splits: []SplitInput{
			{OwedByMemberID: "A"},
			{OwedByMemberID: "B"},
		},
	}, usd())
	if err != nil {
		t.Fatalf("zero total must not be an error, got: %v", err)
	}
	if len(result.Splits) != 2 {
		t.Fatalf("expected 2 splits carried through, got %d", len(result.Splits))
	}
	for i, split := range result.Splits {
		if split.AllocatedAmount != 0 {
			t.Errorf("split %d: allocated %.2f, want 0", i, split.AllocatedAmount)
		}
	}
	if !result.FullyAllocated {
		t.Error("zero total allocates nothing and is complete")
	}
}

func TestAllocateNoSplitsIsNoOp(t *testing.T) {
	s := NewAllocationService()

	tests := []struct {
		name   string
		splits []SplitInput
	}{
		{"No Rows", nil},
		{"Only Placeholders", []SplitInput{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Allocate(AllocationInput{TotalAmount: 10, Splits: tt.splits}, usd())
			if err != nil {
				t.Fatalf("empty split list must not be an error, got: %v", err)
			}
			if len(result.Splits) != 0 {
				t.Errorf("expected empty result, got %d splits", len(result.Splits))
			}
		})
	}
}

func TestAllocateNegativeAssignedRejected(t *testing.T) {
	s := NewAllocationService()

	if _, err := s.Allocate(AllocationInput{
		TotalAmount: 10,
		Splits:      []SplitInput{{OwedByMemberID: "A", AssignedAmount: -5}},
	}, usd()); err == nil {
		t.Error("expected error for negative assigned amount")
	}
}
