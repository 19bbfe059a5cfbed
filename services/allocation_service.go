package services

import (
	"math"

	"pipsplit-backend/currency"
	apperrors "pipsplit-backend/errors"
)

// SplitInput is one row of the allocation request. AssignedAmount drives
// amount mode, Percentage drives percentage mode; the engine ignores
// whichever field the mode does not use.
type SplitInput struct {
	OwedByMemberID string  `json:"owed_by_member_id"`
	AssignedAmount float64 `json:"assigned_amount"`
	Percentage     float64 `json:"percentage"`
}

type AllocationInput struct {
	TotalAmount        float64      `json:"total_amount"`
	SharedAmount       float64      `json:"shared_amount"`
	ProportionalAmount float64      `json:"proportional_amount"`
	SplitByPercentage  bool         `json:"split_by_percentage"`
	Splits             []SplitInput `json:"splits"`
}

type SplitResult struct {
	OwedByMemberID  string  `json:"owed_by_member_id"`
	AssignedAmount  float64 `json:"assigned_amount"`
	Percentage      float64 `json:"percentage"`
	AllocatedAmount float64 `json:"allocated_amount"`
}

// AllocationResult carries the computed per-split amounts. When
// FullyAllocated is false the split amounts do not sum to the total and
// the expense must not be persisted. AdjustedSharedAmount reports the
// shared portion actually used, which may differ from the requested one
// when the engine reconciles the component amounts against the total.
type AllocationResult struct {
	Splits               []SplitResult `json:"splits"`
	AdjustedSharedAmount float64       `json:"adjusted_shared_amount"`
	FullyAllocated       bool          `json:"fully_allocated"`
}

type AllocationService interface {
	Allocate(input AllocationInput, cur currency.Config) (*AllocationResult, error)
}

type allocationService struct{}

func NewAllocationService() AllocationService {
	return &allocationService{}
}

func (s *allocationService) Allocate(input AllocationInput, cur currency.Config) (*AllocationResult, error) {
	splits := pruneSplits(input.Splits)

	// A zero total or an empty split list is a valid in-progress form
	// state: the engine allocates nothing and leaves rejection to its
	// callers.
	if input.TotalAmount <= 0 || len(splits) == 0 {
		return noOpResult(input, splits), nil
	}

	if input.SplitByPercentage {
		return s.allocateByPercentage(input, splits, cur)
	}
	return s.allocateByAmount(input, splits, cur)
}

// pruneSplits drops placeholder rows: no member and no assigned amount.
// A row carrying an amount without a member is kept so validation can
// reject it rather than silently drop money; a stray percentage does not
// save a row, since percentage mode re-completes to 100 without it.
func pruneSplits(splits []SplitInput) []SplitInput {
	kept := make([]SplitInput, 0, len(splits))
	for _, split := range splits {
		if split.OwedByMemberID == "" && split.AssignedAmount == 0 {
			continue
		}
		kept = append(kept, split)
	}
	return kept
}

func noOpResult(input AllocationInput, splits []SplitInput) *AllocationResult {
	results := make([]SplitResult, len(splits))
	for i, split := range splits {
		results[i] = SplitResult{
			OwedByMemberID: split.OwedByMemberID,
			AssignedAmount: split.AssignedAmount,
			Percentage:     split.Percentage,
		}
	}
	return &AllocationResult{
		Splits:               results,
		AdjustedSharedAmount: input.SharedAmount,
		FullyAllocated:       true,
	}
}

func (s *allocationService) allocateByAmount(input AllocationInput, splits []SplitInput, cur currency.Config) (*AllocationResult, error) {
	for _, split := range splits {
		if split.AssignedAmount < 0 {
			return nil, apperrors.InvalidAmount("assigned amounts cannot be negative")
		}
	}

	splitCount := float64(len(splits))

	splitTotal := 0.0
	for _, split := range splits {
		splitTotal += split.AssignedAmount
	}
	splitTotal = cur.Round(splitTotal)

	// The three component amounts must account for the whole total. When
	// they do not, the shared portion absorbs the difference so the caller
	// never has to re-enter the other two.
	shared := input.SharedAmount
	if cur.Round(shared+input.ProportionalAmount+splitTotal) != cur.Round(input.TotalAmount) {
		shared = cur.Round(input.TotalAmount - splitTotal - input.ProportionalAmount)
	}
	if shared < 0 {
		return nil, apperrors.InvalidAmount("assigned and proportional amounts exceed the total")
	}

	sharedShare := cur.Round(shared / splitCount)

	results := make([]SplitResult, len(splits))
	for i, split := range splits {
		allocated := sharedShare
		if splitTotal == 0 {
			allocated = cur.Round(allocated + input.ProportionalAmount/splitCount)
		} else {
			allocated = cur.Round(split.AssignedAmount + sharedShare + (split.AssignedAmount/splitTotal)*input.ProportionalAmount)
		}
		results[i] = SplitResult{
			OwedByMemberID:  split.OwedByMemberID,
			AssignedAmount:  split.AssignedAmount,
			Percentage:      split.Percentage,
			AllocatedAmount: allocated,
		}
	}

	distributeRemainder(results, input.TotalAmount, cur)

	return &AllocationResult{
		Splits:               results,
		AdjustedSharedAmount: shared,
		FullyAllocated:       true,
	}, nil
}

func (s *allocationService) allocateByPercentage(input AllocationInput, splits []SplitInput, cur currency.Config) (*AllocationResult, error) {
	for _, split := range splits {
		if split.Percentage < 0 {
			return nil, apperrors.InvalidAmount("percentages cannot be negative")
		}
	}

	// The last split's percentage is derived, not entered: it is forced to
	// whatever remains so a fully-entered form always sums to 100.
	last := len(splits) - 1
	othersTotal := 0.0
	for _, split := range splits[:last] {
		othersTotal += split.Percentage
	}
	splits[last].Percentage = roundPercentage(PercentageTotal - othersTotal)
	if splits[last].Percentage < 0 {
		return nil, apperrors.InvalidPercentages(roundPercentage(othersTotal))
	}

	percentageSum := 0.0
	results := make([]SplitResult, len(splits))
	for i, split := range splits {
		percentageSum += split.Percentage
		results[i] = SplitResult{
			OwedByMemberID:  split.OwedByMemberID,
			AssignedAmount:  split.AssignedAmount,
			Percentage:      split.Percentage,
			AllocatedAmount: cur.Round(input.TotalAmount * split.Percentage / PercentageTotal),
		}
	}

	fullyAllocated := roundPercentage(percentageSum) == PercentageTotal
	if fullyAllocated {
		distributeRemainder(results, input.TotalAmount, cur)
	}

	return &AllocationResult{
		Splits:               results,
		AdjustedSharedAmount: input.SharedAmount,
		FullyAllocated:       fullyAllocated,
	}, nil
}

func roundPercentage(p float64) float64 {
	return math.Round(p*100) / 100
}

// distributeRemainder spreads the leftover rounding difference one minor
// unit at a time, cycling from the first split, until the allocated
// amounts sum exactly to the total. Counting steps in minor units keeps
// float drift out of the loop condition.
func distributeRemainder(results []SplitResult, total float64, cur currency.Config) {
	allocated := 0.0
	for _, r := range results {
		allocated += r.AllocatedAmount
	}

	diffUnits := cur.MinorUnits(total) - cur.MinorUnits(cur.Round(allocated))
	if diffUnits == 0 {
		return
	}

	step := cur.SmallestIncrement()
	if diffUnits < 0 {
		step = -step
		diffUnits = -diffUnits
	}

	for i := int64(0); i < diffUnits; i++ {
		idx := int(i) % len(results)
		results[idx].AllocatedAmount = cur.Round(results[idx].AllocatedAmount + step)
	}
}
