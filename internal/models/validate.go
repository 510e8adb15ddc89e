package models

import (
	"errors"
	"math"
	"strings"
)

// Validation errors returned by ValidateInput.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrNegativeRevenue = errors.New("revenue must be a number of at least zero")
	ErrNonPositiveTime = errors.New("time taken must be a number greater than zero")
	ErrDuplicateTitle  = errors.New("task title already exists")
	ErrInvalidPriority = errors.New("priority must be High, Medium or Low")
	ErrInvalidStatus   = errors.New("status must be Todo, In Progress or Done")
)

// ValidateInput checks a task payload the way the entry form does.
// Title uniqueness (case-insensitive) is only enforced when isNew is set;
// edits may keep or reuse any title.
func ValidateInput(in TaskInput, existingTitles []string, isNew bool) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if !(in.Revenue >= 0) || math.IsInf(in.Revenue, 1) {
		return ErrNegativeRevenue
	}
	if !(in.TimeTaken > 0) || math.IsInf(in.TimeTaken, 1) {
		return ErrNonPositiveTime
	}
	if !in.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if isNew && TitleExists(title, existingTitles) {
		return ErrDuplicateTitle
	}
	return nil
}

// TitleExists reports whether title matches any of titles, ignoring case
// and surrounding whitespace.
func TitleExists(title string, titles []string) bool {
	needle := strings.ToLower(strings.TrimSpace(title))
	for _, t := range titles {
		if strings.ToLower(strings.TrimSpace(t)) == needle {
			return true
		}
	}
	return false
}
