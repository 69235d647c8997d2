// Package leitner implements the three-box Leitner schedule used to decide
// when a card is next due for review.
package leitner

import "time"

const (
	MinBox = 1
	MaxBox = 3
)

// intervals maps a box to the number of days until the next review after a
// correct answer.
var intervals = map[int]int{
	1: 1,
	2: 3,
	3: 7,
}

// IntervalDays returns the review interval for box. Unknown boxes get one day.
func IntervalDays(box int) int {
	if days, ok := intervals[box]; ok {
		return days
	}
	return 1
}

// NextBox returns the box a card moves to after an answer.
// A correct answer promotes the card one box, capped at MaxBox.
// An incorrect answer sends it back to MinBox.
func NextBox(correct bool, box int) int {
	if !correct {
		return MinBox
	}
	return min(box+1, MaxBox)
}

// NextReviewDate returns when a card is next due after an answer.
//
// The interval is looked up with the box the card was in when it was
// answered, not the box it moves to: a correct answer from box 2 lands in
// box 3 but is due again in 3 days, not 7.
func NextReviewDate(correct bool, box int, now time.Time) time.Time {
	if !correct {
		return now
	}
	return now.AddDate(0, 0, IntervalDays(box))
}

// Schedule applies both transitions for a single answer.
func Schedule(correct bool, box int, now time.Time) (int, time.Time) {
	return NextBox(correct, box), NextReviewDate(correct, box, now)
}
