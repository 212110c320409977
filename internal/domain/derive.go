package domain

import "math"

// Derived values are computed fresh on every read and never stored, so they
// cannot go stale against the source fields.

// AllocatedTotal sums the milestone amounts of a project.
func AllocatedTotal(p Project) int64 {
	var sum int64
	for _, m := range p.Payments {
		sum += m.Amount
	}
	return sum
}

// BalanceDifference is positive when milestones allocate less than the
// contract value and negative when they allocate more.
func BalanceDifference(p Project) int64 {
	return p.TotalValue - AllocatedTotal(p)
}

// IsBalanced reports exact equality between the contract value and the
// allocated milestone total. No tolerance band; amounts are whole VND.
func IsBalanced(p Project) bool {
	return BalanceDifference(p) == 0
}

// BalanceToLast recomputes only the last milestone so the allocation matches
// targetTotal, clamping at zero when the earlier milestones already exceed it.
// The residual in the clamped case is accepted silently. A project without
// milestones is returned unchanged.
func BalanceToLast(p Project, targetTotal int64) Project {
	if len(p.Payments) == 0 {
		return p
	}
	out := p.Clone()
	out.TotalValue = targetTotal
	var sumExceptLast int64
	for _, m := range out.Payments[:len(out.Payments)-1] {
		sumExceptLast += m.Amount
	}
	last := targetTotal - sumExceptLast
	if last < 0 {
		last = 0
	}
	out.Payments[len(out.Payments)-1].Amount = last
	return out
}

// DepositSplit computes the 30/70 split used for the two milestones a new
// project starts with. The deposit rounds to the nearest whole unit and the
// settlement absorbs the remainder, so the parts always sum to total.
func DepositSplit(total int64) (deposit, settlement int64) {
	deposit = int64(math.Round(float64(total) * 0.3))
	return deposit, total - deposit
}

// DoneStageCount counts stages marked done.
func DoneStageCount(p Project) int {
	n := 0
	for _, s := range p.Stages {
		if s.Status == StageDone {
			n++
		}
	}
	return n
}

// Progress is the percentage of done stages, rounded to the nearest integer.
// It is a separate measure from IsComplete and the two can disagree.
func Progress(p Project) int {
	if len(p.Stages) == 0 {
		return 0
	}
	return int(math.Round(float64(DoneStageCount(p)) / float64(len(p.Stages)) * 100))
}

// IsComplete reports whether the final stage is done. Earlier stages are not
// consulted; that is how the studio reads a project board.
func IsComplete(p Project) bool {
	if len(p.Stages) == 0 {
		return false
	}
	return p.Stages[len(p.Stages)-1].Status == StageDone
}

// IsStageOverdue reports an unfinished stage whose deadline has passed.
// Stages without a deadline are never overdue.
func IsStageOverdue(s ProjectStage, today Date) bool {
	return s.Status != StageDone && s.Deadline != nil && s.Deadline.Before(today)
}

// HasOverdueStage reports whether any stage of the project is overdue.
func HasOverdueStage(p Project, today Date) bool {
	for _, s := range p.Stages {
		if IsStageOverdue(s, today) {
			return true
		}
	}
	return false
}

// IsMilestoneOverdue derives lateness from the due date for anything not yet
// collected. This is independent of the stored "Quá hạn" status a user may
// have set by hand.
func IsMilestoneOverdue(m PaymentMilestone, today Date) bool {
	return m.Status != PaymentPaid && m.DueDate.Before(today)
}

// CollectedTotal sums milestones already collected.
func CollectedTotal(p Project) int64 {
	var sum int64
	for _, m := range p.Payments {
		if m.Status == PaymentPaid {
			sum += m.Amount
		}
	}
	return sum
}

// OutstandingTotal sums milestones not yet collected, whatever their stored
// status says.
func OutstandingTotal(p Project) int64 {
	var sum int64
	for _, m := range p.Payments {
		if m.Status != PaymentPaid {
			sum += m.Amount
		}
	}
	return sum
}

// CollectionProgress is the collected share of the contract value in percent,
// zero when the contract value is zero.
func CollectionProgress(p Project) int {
	if p.TotalValue == 0 {
		return 0
	}
	return int(math.Round(float64(CollectedTotal(p)) / float64(p.TotalValue) * 100))
}

// CurrentStage picks the stage being worked on: the first in-progress stage,
// falling back to the first stage of the template.
func CurrentStage(p Project) *ProjectStage {
	if len(p.Stages) == 0 {
		return nil
	}
	for i := range p.Stages {
		if p.Stages[i].Status == StageInProgress {
			return &p.Stages[i]
		}
	}
	return &p.Stages[0]
}
