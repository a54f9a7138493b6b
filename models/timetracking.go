package models

import (
	"fmt"
	"math"
	"time"
)

// TimeEntry is one logged block of work. Hours are fractional in quarter-hour
// steps, which is what the timer UI rounds to.
type TimeEntry struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	Hours     float64   `json:"hours" bson:"hours"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Billable  bool      `json:"billable" bson:"billable"`

	// InvoiceLineItem is set only when Billable is true.
	InvoiceLineItem *InvoiceLineItem `json:"invoiceLineItem,omitempty" bson:"invoiceLineItem,omitempty"`
}

type InvoiceLineItem struct {
	ID          string  `json:"id" bson:"id"`
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
	InvoiceID   string  `json:"invoiceId,omitempty" bson:"invoiceId,omitempty"`
}

type BudgetAlert struct {
	Enabled   bool    `json:"enabled" bson:"enabled"`
	Threshold float64 `json:"threshold" bson:"threshold"`
	// Notified is one-shot: once true it never flips back.
	Notified bool `json:"notified" bson:"notified"`
}

type TimeTracking struct {
	EstimatedHours float64 `json:"estimatedHours" bson:"estimatedHours"`
	// LoggedHours is derived and must always equal the sum of
	// TimeEntries hours. It is never written independently.
	LoggedHours float64     `json:"loggedHours" bson:"loggedHours"`
	Billable    bool        `json:"billable" bson:"billable"`
	BudgetAlert BudgetAlert `json:"budgetAlert" bson:"budgetAlert"`
	TimeEntries []TimeEntry `json:"timeEntries" bson:"timeEntries"`
}

// ValidateHours rejects non-positive hours and anything off the quarter-hour
// grid.
func ValidateHours(hours float64) error {
	if hours <= 0 {
		return &ValidationError{Field: "hours", Message: "hours must be greater than zero"}
	}
	quarters := hours * 4
	if math.Abs(quarters-math.Round(quarters)) > 1e-9 {
		return &ValidationError{Field: "hours", Message: fmt.Sprintf("hours must be in increments of 0.25, got %v", hours)}
	}
	return nil
}

// SumEntryHours is the canonical derivation of LoggedHours.
func (tt *TimeTracking) SumEntryHours() float64 {
	var total float64
	for i := range tt.TimeEntries {
		total += tt.TimeEntries[i].Hours
	}
	return total
}

func (tt *TimeTracking) Validate() error {
	if tt.EstimatedHours < 0 {
		return &ValidationError{Field: "timeTracking.estimatedHours", Message: "estimated hours must not be negative"}
	}
	if tt.BudgetAlert.Enabled && tt.BudgetAlert.Threshold <= 0 {
		return &ValidationError{Field: "timeTracking.budgetAlert.threshold", Message: "budget alert threshold must be greater than zero when the alert is enabled"}
	}
	if tt.LoggedHours != tt.SumEntryHours() {
		return &ValidationError{Field: "timeTracking.loggedHours", Message: "logged hours out of sync with time entries"}
	}
	return nil
}

func (tt TimeTracking) clone() TimeTracking {
	c := tt
	c.TimeEntries = make([]TimeEntry, len(tt.TimeEntries))
	for i, e := range tt.TimeEntries {
		c.TimeEntries[i] = e
		if e.InvoiceLineItem != nil {
			li := *e.InvoiceLineItem
			c.TimeEntries[i].InvoiceLineItem = &li
		}
	}
	return c
}
