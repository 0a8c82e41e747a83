package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/services"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
	"github.com/nayidisha/nayidisha-client/internal/filex"
)

// Report walks through the complaint form. Contact fields come from the
// profile; coordinates default to the fallback position.
func (a *App) Report(ctx context.Context, _ []string) error {
	defer a.form.Reset()

	form, err := a.form.Prefill(ctx)
	if err != nil {
		return err
	}

	if form.Title, err = getChoice(a.reader, "Select complaint type", models.ComplaintTitles, a.out); err != nil {
		return err
	}
	if form.Description, err = getMultiline(a.reader, "Describe the problem", a.out); err != nil {
		return err
	}
	if form.Address, err = getSimpleText(a.reader, "Enter address (optional)", a.out); err != nil {
		return err
	}

	coords, err := getSimpleText(a.reader, "Enter coordinates as lat,lon (empty to use the default)", a.out)
	if err != nil {
		return err
	}
	lat, lon, err := parseCoords(coords)
	if err != nil {
		return err
	}
	if err := a.form.Locate(ctx, &form, lat, lon); err != nil {
		fmt.Fprintln(a.out, state.Message(err, err.Error()))
		if form.Location, err = getSimpleText(a.reader, "Enter location", a.out); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.out, "Location:", form.Location)
	}

	imagePath, err := getSimpleText(a.reader, "Attach image file (optional)", a.out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if form.Image, err = filex.ReadAttachment(imagePath); err != nil {
			return err
		}
	}

	is, err := a.form.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Complaint #%d submitted, status %s\n", is.ID, is.Status.Label())
	return nil
}

// parseCoords reads "lat,lon". Empty input yields nil pointers.
func parseCoords(s string) (*float64, *float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, nil, fmt.Errorf("coordinates must look like 28.61,77.20")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid longitude %q", lonStr)
	}
	return &lat, &lon, nil
}

// Mine lists the user's complaints. Plain words search title and name;
// filter:<status>, sort:asc|desc and page:<n> refine the listing. Without
// arguments the list is refetched and the refinements are cleared.
func (a *App) Mine(ctx context.Context, args []string) error {
	if len(args) == 0 || len(a.dispatcher.Store().Snapshot().MyComplaints.Complaints) == 0 {
		if err := a.complaints.Load(ctx); err != nil {
			return err
		}
	}

	var (
		words  []string
		status models.IssueStatus
		asc    bool
	)
	page := -1
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		switch {
		case ok && key == "filter":
			st, err := models.ParseStatus(value)
			if err != nil {
				return client.ValidationError("Invalid status", client.ErrInvalidStatus)
			}
			status = st
		case ok && key == "sort":
			asc = value == "asc"
		case ok && key == "page":
			n, err := pageArg([]string{value})
			if err != nil {
				return err
			}
			page = n
		default:
			words = append(words, arg)
		}
	}

	a.complaints.SetSearch(strings.Join(words, " "))
	a.complaints.SetStatusFilter(status)
	a.complaints.SortAscending(asc)
	if page >= 0 {
		a.complaints.GoToPage(page)
	}

	p := a.complaints.Page()
	printIssues(a.out, p.Complaints)
	printPager(a.out, p.Page, p.TotalPages, p.Total)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	is, err := a.complaints.View(ctx, id)
	if err != nil {
		return err
	}
	printIssue(a.out, is)
	return nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	p, err := a.profile.Load(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// EditProfile prompts for each field, keeping the current value on an
// empty answer, and saves the profile.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	p, err := a.profile.Load(ctx)
	if err != nil {
		return err
	}
	upd := services.Draft(p)

	fields := []struct {
		label string
		value *string
	}{
		{"Name", &upd.Name},
		{"Email", &upd.Email},
		{"Phone number", &upd.PhoneNumber},
		{"Address", &upd.Address},
		{"Bio", &upd.Bio},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.value), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.value = v
		}
	}

	picture, err := getSimpleText(a.reader, "Profile picture file (optional)", a.out)
	if err != nil {
		return err
	}
	if picture != "" {
		if upd.Picture, err = filex.ReadAttachment(picture); err != nil {
			return err
		}
	}

	res, err := a.profile.Submit(ctx, upd)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	if res.Warning != "" {
		fmt.Fprintln(a.out, res.Warning)
	}
	printProfile(a.out, res.Profile)
	return nil
}
