package models

import (
	"strings"
	"time"

	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
)

// Status is the lifecycle state of a contest.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// ParseReviewStatus accepts the statuses an admin may assign.
func ParseReviewStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid contest status: "+s)
	}
}

// Contest is a listing users pay to enter.
//
// Invariants:
//   - EntryFee and PrizeAmount are non-negative minor currency units
//   - Participants only grows, one per confirmed registration
//   - WinnerEmail is set at most once and moves the contest to completed
type Contest struct {
	ID               id.ContestID `json:"id"`
	CreatorEmail     string       `json:"creatorEmail"`
	CreatorName      string       `json:"creatorName,omitempty"`
	Name             string       `json:"name"`
	Category         string       `json:"category"`
	Description      string       `json:"description,omitempty"`
	TaskInstructions string       `json:"taskInstructions,omitempty"`
	ImageURL         string       `json:"image,omitempty"`
	EntryFee         int64        `json:"entryFee"`
	PrizeAmount      int64        `json:"prizeAmount"`
	Deadline         time.Time    `json:"deadline"`
	Status           Status       `json:"status"`
	Participants     int          `json:"participants"`
	WinnerEmail      string       `json:"winnerEmail,omitempty"`
	WinnerName       string       `json:"winnerName,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// DeadlinePassed reports whether entries close at or before now.
func (c *Contest) DeadlinePassed(now time.Time) bool {
	return !now.Before(c.Deadline)
}

func (c *Contest) OwnedBy(email string) bool {
	return c.CreatorEmail == email
}

func (c *Contest) HasWinner() bool {
	return c.WinnerEmail != ""
}

// Draft is the creator-supplied content of a new contest.
type Draft struct {
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	TaskInstructions string    `json:"taskInstructions"`
	ImageURL         string    `json:"image"`
	EntryFee         int64     `json:"entryFee"`
	PrizeAmount      int64     `json:"prizeAmount"`
	Deadline         time.Time `json:"deadline"`
}

func (d *Draft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	d.Description = strings.TrimSpace(d.Description)
	d.TaskInstructions = strings.TrimSpace(d.TaskInstructions)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
}

// Validate checks a normalized draft against the current time.
func (d *Draft) Validate(now time.Time) error {
	switch {
	case d.Name == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case len(d.Name) > 200:
		return dErrors.New(dErrors.CodeValidation, "name is too long")
	case d.Category == "":
		return dErrors.New(dErrors.CodeValidation, "category is required")
	case d.EntryFee < 0 || d.PrizeAmount < 0:
		return dErrors.New(dErrors.CodeValidation, "amounts must not be negative")
	case d.Deadline.IsZero():
		return dErrors.New(dErrors.CodeValidation, "deadline is required")
	case !d.Deadline.After(now):
		return dErrors.New(dErrors.CodeValidation, "deadline must be in the future")
	}
	return nil
}

// NewContest builds a pending contest from a validated draft.
func NewContest(creatorEmail, creatorName string, d Draft, now time.Time) *Contest {
	return &Contest{
		ID:               id.NewContestID(),
		CreatorEmail:     creatorEmail,
		CreatorName:      creatorName,
		Name:             d.Name,
		Category:         d.Category,
		Description:      d.Description,
		TaskInstructions: d.TaskInstructions,
		ImageURL:         d.ImageURL,
		EntryFee:         d.EntryFee,
		PrizeAmount:      d.PrizeAmount,
		Deadline:         d.Deadline.UTC(),
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Changes carries the editable fields of a pending contest; nil means unchanged.
type Changes struct {
	Name             *string    `json:"name,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Description      *string    `json:"description,omitempty"`
	TaskInstructions *string    `json:"taskInstructions,omitempty"`
	ImageURL         *string    `json:"image,omitempty"`
	EntryFee         *int64     `json:"entryFee,omitempty"`
	PrizeAmount      *int64     `json:"prizeAmount,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// Apply returns a copy of c with the changes applied and re-validated.
func (ch Changes) Apply(c *Contest, now time.Time) (*Contest, error) {
	d := Draft{
		Name: c.Name, Category: c.Category, Description: c.Description,
		TaskInstructions: c.TaskInstructions, ImageURL: c.ImageURL,
		EntryFee: c.EntryFee, PrizeAmount: c.PrizeAmount, Deadline: c.Deadline,
	}
	setString(&d.Name, ch.Name)
	setString(&d.Category, ch.Category)
	setString(&d.Description, ch.Description)
	setString(&d.TaskInstructions, ch.TaskInstructions)
	setString(&d.ImageURL, ch.ImageURL)
	if ch.EntryFee != nil {
		d.EntryFee = *ch.EntryFee
	}
	if ch.PrizeAmount != nil {
		d.PrizeAmount = *ch.PrizeAmount
	}
	if ch.Deadline != nil {
		d.Deadline = *ch.Deadline
	}
	d.Normalize()
	if err := d.Validate(now); err != nil {
		return nil, err
	}

	out := *c
	out.Name, out.Category, out.Description = d.Name, d.Category, d.Description
	out.TaskInstructions, out.ImageURL = d.TaskInstructions, d.ImageURL
	out.EntryFee, out.PrizeAmount, out.Deadline = d.EntryFee, d.PrizeAmount, d.Deadline.UTC()
	out.UpdatedAt = now
	return &out, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Filter narrows the public contest listing.
type Filter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize applies paging defaults and bounds.
func (f *Filter) Normalize() {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Matches reports whether c satisfies the category and search terms.
func (f Filter) Matches(c *Contest) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
