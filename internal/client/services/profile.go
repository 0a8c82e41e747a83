package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	MsgInvalidImage      = "Please select a valid image file (e.g., PNG, JPEG)."
	MsgImageUploadFailed = "Profile updated, but image upload failed."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CheckImage accepts only image/* attachments.
func CheckImage(a *models.Attachment) error {
	if a == nil || !strings.HasPrefix(a.ContentType, "image/") {
		return client.ValidationError(MsgInvalidImage, nil)
	}
	return nil
}

// ProfileResult is a saved profile. Warning is set when the text fields
// were saved but the picture was not.
type ProfileResult struct {
	Profile *models.Profile
	Warning string
}

// ProfileEditor is the user's profile screen.
type ProfileEditor struct {
	d   *actions.Dispatcher
	log logging.Logger
}

func NewProfileEditor(d *actions.Dispatcher, log logging.Logger) *ProfileEditor {
	return &ProfileEditor{d: d, log: log}
}

func (e *ProfileEditor) Load(ctx context.Context) (*models.Profile, error) {
	return e.d.FetchUserProfile(ctx)
}

// Draft is an update prefilled from p. Empty address and role get the
// screen defaults.
func Draft(p *models.Profile) models.ProfileUpdate {
	upd := models.ProfileUpdate{Address: "Delhi, India", Role: models.RoleUser}
	if p == nil {
		return upd
	}
	upd.Name, upd.Email, upd.PhoneNumber, upd.Bio = p.Name, p.Email, p.PhoneNumber, p.Bio
	if p.Address != "" {
		upd.Address = p.Address
	}
	if p.Role != "" {
		upd.Role = p.Role
	}
	return upd
}

func (e *ProfileEditor) Submit(ctx context.Context, upd models.ProfileUpdate) (*ProfileResult, error) {
	if !emailPattern.MatchString(upd.Email) {
		return nil, client.ValidationError(MsgInvalidEmail, nil)
	}
	if upd.Picture != nil {
		if err := CheckImage(upd.Picture); err != nil {
			return nil, err
		}
	}

	p, err := e.d.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}

	res := &ProfileResult{Profile: p}
	if upd.Picture != nil && p.Picture == "" {
		res.Warning = MsgImageUploadFailed
		e.log.Warn(ctx, "profile picture not stored", "filename", upd.Picture.Filename)
	}
	return res, nil
}
