package domain

import "time"

// Stack is a named collection of cards studied together. Names are unique.
type Stack struct {
	ID   int64
	Name string `validate:"required,max=100"`
}

// StudySession is the immutable record of one completed study pass.
// Score is the number of cards answered correctly.
type StudySession struct {
	ID      int64
	StackID int64
	Date    time.Time
	Score   int
}

// MonthlyCountRow holds, for one stack, the number of study sessions in
// each calendar month of a year. Months[0] is January.
type MonthlyCountRow struct {
	StackID   int64
	StackName string
	Months    [12]int
}

// MonthlyAverageRow holds, for one stack, the mean session score in each
// calendar month of a year. Months without sessions are 0.
type MonthlyAverageRow struct {
	StackID   int64
	StackName string
	Months    [12]float64
}
