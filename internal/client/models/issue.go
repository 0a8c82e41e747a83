package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IssueStatus is the lifecycle state of a complaint.
type IssueStatus string

const (
	StatusPending    IssueStatus = "PENDING"
	StatusInProgress IssueStatus = "INPROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
	StatusRejected   IssueStatus = "REJECTED"
)

var ErrUnknownStatus = errors.New("unknown issue status")

// Statuses lists every status in display order.
var Statuses = []IssueStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (IssueStatus, error) {
	upper := IssueStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if st == upper {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Label renders the status with the first letter upper-cased and the rest
// lower-cased, e.g. "Inprogress".
func (s IssueStatus) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// TransitionPath is the admin endpoint suffix that moves an issue into s.
// PENDING is the initial state and has no transition.
func (s IssueStatus) TransitionPath() (string, bool) {
	switch IssueStatus(strings.ToUpper(string(s))) {
	case StatusInProgress:
		return "in-progress", true
	case StatusRejected:
		return "reject", true
	case StatusResolved:
		return "resolve", true
	default:
		return "", false
	}
}

// Issue is a civic complaint as returned by both the admin and user APIs.
type Issue struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Status      IssueStatus `json:"status"`
	Location    string      `json:"location,omitempty"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
	Picture     string      `json:"picture,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. Backend timestamps without a zone are read
// as local time.
func (i Issue) CreatedTime() (time.Time, bool) {
	return parseTimestamp(i.CreatedAt)
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeleteAck is the backend acknowledgement of a delete.
type DeleteAck struct {
	ID int64 `json:"id"`
}

// StatusCounts tallies issues per status.
type StatusCounts map[IssueStatus]int

// CountStatuses tallies issues by status. Unknown statuses are counted under
// their raw value.
func CountStatuses(issues []Issue) StatusCounts {
	counts := make(StatusCounts, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, is := range issues {
		st, err := ParseStatus(string(is.Status))
		if err != nil {
			st = is.Status
		}
		counts[st]++
	}
	return counts
}
