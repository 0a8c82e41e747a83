package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/geo"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	MsgRequiredFields  = "Please fill out all required fields and select a complaint type."
	MsgInvalidEmail    = "Invalid email format"
	MsgAddressLookup   = "Failed to fetch address. You may enter it manually."
	ComplaintsPageSize = 6
	complaintTitleTag  = "complaint_title"
)

// Locator turns coordinates into an address.
type Locator interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// NewValidator returns a validator that knows the complaint title catalogue.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(complaintTitleTag, func(fl validator.FieldLevel) bool {
		return models.IsComplaintTitle(fl.Field().String())
	})
	return v
}

// ComplaintForm is the user's new-complaint screen.
type ComplaintForm struct {
	d        *actions.Dispatcher
	geo      Locator
	validate *validator.Validate
	log      logging.Logger
}

func NewComplaintForm(d *actions.Dispatcher, loc Locator, log logging.Logger) *ComplaintForm {
	return &ComplaintForm{d: d, geo: loc, validate: NewValidator(), log: log}
}

// Prefill starts a form with the contact fields of the signed-in user.
func (f *ComplaintForm) Prefill(ctx context.Context) (models.ReportForm, error) {
	p, err := f.d.FetchUserProfile(ctx)
	if err != nil {
		return models.ReportForm{}, err
	}
	return models.ReportForm{Name: p.Name, Email: p.Email, PhoneNumber: p.PhoneNumber}, nil
}

// Locate sets the form coordinates, falling back to the default position
// when lat or lon is unknown, and fills Location from the geocoder. The
// coordinates are kept even when the address lookup fails.
func (f *ComplaintForm) Locate(ctx context.Context, form *models.ReportForm, lat, lon *float64) error {
	pos := geo.PositionOf(lat, lon)
	form.Latitude, form.Longitude = &pos.Latitude, &pos.Longitude

	place, err := f.geo.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		f.log.Warn(ctx, "address lookup failed", "error", err)
		return client.ValidationError(MsgAddressLookup, err)
	}
	form.Location = place
	return nil
}

// Validate checks the form without touching the network.
func (f *ComplaintForm) Validate(form models.ReportForm) error {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return client.ValidationError(MsgInvalidEmail, err)
			}
		}
	}
	return client.ValidationError(MsgRequiredFields, err)
}

// Submit validates and sends form.
func (f *ComplaintForm) Submit(ctx context.Context, form models.ReportForm) (*models.Issue, error) {
	if err := f.Validate(form); err != nil {
		return nil, err
	}
	return f.d.SubmitReport(ctx, form)
}

// Reset clears the last submission outcome.
func (f *ComplaintForm) Reset() {
	f.d.ResetReport()
}

// ComplaintList is the user's own complaints, filtered and paged locally.
type ComplaintList struct {
	d   *actions.Dispatcher
	nav Navigator

	mu     sync.Mutex
	search string
	status models.IssueStatus
	asc    bool
	page   int
}

func NewComplaintList(d *actions.Dispatcher, nav Navigator) *ComplaintList {
	return &ComplaintList{d: d, nav: nav}
}

func (l *ComplaintList) Load(ctx context.Context) error {
	_, err := l.d.FetchMyComplaints(ctx)
	l.mu.Lock()
	l.page = 0
	l.mu.Unlock()
	return err
}

func (l *ComplaintList) SetSearch(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = strings.ToLower(strings.TrimSpace(term))
	l.page = 0
}

func (l *ComplaintList) SetStatusFilter(status models.IssueStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = status
	l.page = 0
}

// SortAscending orders by creation time, oldest first when asc is set.
func (l *ComplaintList) SortAscending(asc bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asc = asc
}

// ComplaintPage is one locally computed page of complaints.
type ComplaintPage struct {
	Complaints []models.Issue
	Page       int
	TotalPages int
	Total      int
}

// Page filters the loaded complaints and cuts the current page. Entries
// without an id, title or status are dropped.
func (l *ComplaintList) Page() ComplaintPage {
	all := l.d.Store().Snapshot().MyComplaints.Complaints

	l.mu.Lock()
	search, status, asc, page := l.search, l.status, l.asc, l.page
	l.mu.Unlock()

	filtered := make([]models.Issue, 0, len(all))
	for _, is := range all {
		if is.ID == 0 || is.Title == "" || is.Status == "" {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(is.Title), search) &&
			!strings.Contains(strings.ToLower(is.Name), search) {
			continue
		}
		if status != "" && !strings.EqualFold(string(is.Status), string(status)) {
			continue
		}
		filtered = append(filtered, is)
	}

	slices.SortStableFunc(filtered, func(a, b models.Issue) int {
		ta, _ := a.CreatedTime()
		tb, _ := b.CreatedTime()
		if asc {
			return ta.Compare(tb)
		}
		return tb.Compare(ta)
	})

	total := len(filtered)
	totalPages := (total + ComplaintsPageSize - 1) / ComplaintsPageSize
	start := min(page*ComplaintsPageSize, total)
	end := min(start+ComplaintsPageSize, total)
	return ComplaintPage{
		Complaints: filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

func (l *ComplaintList) GoToPage(p int) {
	if p < 0 || p >= l.Page().TotalPages {
		return
	}
	l.mu.Lock()
	l.page = p
	l.mu.Unlock()
}

// View opens complaint id. An expired session clears the list and sends the
// user to sign-in.
func (l *ComplaintList) View(ctx context.Context, id int64) (*models.Issue, error) {
	is, err := l.d.ViewReport(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrUnauthenticated) {
			l.d.ResetComplaints()
			toSignIn(ctx, l.nav)
		}
		return nil, err
	}
	return is, nil
}
