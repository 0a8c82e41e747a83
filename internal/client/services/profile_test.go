package services

import (
	"context"
	"testing"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckImage(t *testing.T) {
	require.NoError(t, CheckImage(&models.Attachment{ContentType: "image/jpeg"}))
	require.ErrorIs(t, CheckImage(&models.Attachment{ContentType: "application/pdf"}), client.ErrValidation)
	require.ErrorIs(t, CheckImage(nil), client.ErrValidation)
}

func TestDraft(t *testing.T) {
	d := Draft(nil)
	assert.Equal(t, "Delhi, India", d.Address)
	assert.Equal(t, models.RoleUser, d.Role)

	d = Draft(&models.Profile{Name: "Asha", Email: userEmail, Address: "Pune", Role: models.RoleAdmin, Bio: "hi"})
	assert.Equal(t, "Asha", d.Name)
	assert.Equal(t, "Pune", d.Address)
	assert.Equal(t, models.RoleAdmin, d.Role)
	assert.Equal(t, "hi", d.Bio)
	assert.Nil(t, d.Picture)
}

func TestProfileEditor_Submit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.signInAs(t, userEmail)
	e := NewProfileEditor(h.d, logging.Nop())

	p, err := e.Load(ctx)
	require.NoError(t, err)
	upd := Draft(p)
	upd.Bio = "Ward 12 volunteer"

	res, err := e.Submit(ctx, upd)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, "Ward 12 volunteer", res.Profile.Bio)

	upd.Picture = &models.Attachment{Filename: "me.png", ContentType: "image/png", Data: []byte{1}}
	res, err = e.Submit(ctx, upd)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, "/uploads/profile/me.png", res.Profile.Picture)
	assert.True(t, h.d.Store().Snapshot().ProfileUpdate.Success)
}

func TestProfileEditor_RejectsLocally(t *testing.T) {
	e := NewProfileEditor(nil, logging.Nop())

	_, err := e.Submit(context.Background(), models.ProfileUpdate{Email: "not-an-email"})
	require.ErrorIs(t, err, client.ErrValidation)

	_, err = e.Submit(context.Background(), models.ProfileUpdate{
		Email:   userEmail,
		Picture: &models.Attachment{Filename: "cv.pdf", ContentType: "application/pdf"},
	})
	require.ErrorIs(t, err, client.ErrValidation)
}

type pictureDroppingClient struct {
	client.Client
}

func (pictureDroppingClient) UpdateProfile(_ context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	return &models.Profile{Name: upd.Name, Email: upd.Email}, nil
}

func TestProfileEditor_PartialFailureWarns(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, userEmail)
	d := newDispatcherFor(pictureDroppingClient{}, h)

	res, err := NewProfileEditor(d, logging.Nop()).Submit(context.Background(), models.ProfileUpdate{
		Name:    "Asha",
		Email:   userEmail,
		Picture: &models.Attachment{Filename: "me.png", ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, MsgImageUploadFailed, res.Warning)
	assert.Equal(t, "Asha", res.Profile.Name)
}
