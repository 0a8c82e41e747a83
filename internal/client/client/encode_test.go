package client

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedForm struct {
	values      map[string][]string
	files       map[string]string
	fileContent map[string]string
}

func captureMultipart(t *testing.T, r *http.Request) capturedForm {
	t.Helper()
	require.NoError(t, r.ParseMultipartForm(1<<20))

	out := capturedForm{
		values:      r.MultipartForm.Value,
		files:       map[string]string{},
		fileContent: map[string]string{},
	}
	for name, headers := range r.MultipartForm.File {
		out.files[name] = headers[0].Header.Get("Content-Type")
		f, err := headers[0].Open()
		require.NoError(t, err)
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		_ = f.Close()
		out.fileContent[name] = string(b)
	}
	return out
}

func TestUpdateProfile_PicturePartOnlyWithImage(t *testing.T) {
	tests := []struct {
		name        string
		picture     *models.Attachment
		wantPicture bool
		wantType    string
	}{
		{name: "without image", picture: nil},
		{
			name:        "with png",
			picture:     &models.Attachment{Filename: "me.png", ContentType: "image/png", Data: []byte("png-bytes")},
			wantPicture: true,
			wantType:    "image/png",
		},
		{
			name:        "with webp",
			picture:     &models.Attachment{Filename: "me.webp", ContentType: "image/webp", Data: []byte("webp")},
			wantPicture: true,
			wantType:    "image/webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form capturedForm
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "/api/users/profile/update", r.URL.Path)
				form = captureMultipart(t, r)
				writeJSON(w, http.StatusOK, models.Profile{Name: "Asha", Picture: "https://cdn/x.png"})
			}, "tok")

			p, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{
				Name: "Asha", Email: "asha@example.in", Bio: "hi", Picture: tt.picture,
			})
			require.NoError(t, err)
			assert.Equal(t, "Asha", p.Name)

			assert.Equal(t, []string{"Asha"}, form.values["name"])
			assert.Equal(t, []string{"hi"}, form.values["bio"])
			_, hasValue := form.values["picture"]
			assert.False(t, hasValue)

			gotType, hasFile := form.files["picture"]
			assert.Equal(t, tt.wantPicture, hasFile)
			if tt.wantPicture {
				assert.Equal(t, tt.wantType, gotType)
				assert.Equal(t, string(tt.picture.Data), form.fileContent["picture"])
			}
		})
	}
}

func TestSubmitReport_Multipart(t *testing.T) {
	lat, lon := 28.6139, 77.209
	var form capturedForm
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/reportIssue/", r.URL.Path)
		form = captureMultipart(t, r)
		writeJSON(w, http.StatusCreated, models.Issue{ID: 3, Status: models.StatusPending})
	}, "tok")

	issue, err := c.SubmitReport(context.Background(), models.ReportForm{
		Name:        "Asha",
		Email:       "asha@example.in",
		Title:       "Water Supply Issue",
		Description: "No water since Monday",
		Image:       &models.Attachment{Filename: "tap.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
		Latitude:    &lat,
		Longitude:   &lon,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), issue.ID)

	assert.Equal(t, []string{"Water Supply Issue"}, form.values["title"])
	assert.Equal(t, []string{"28.6139"}, form.values["latitude"])
	assert.Equal(t, []string{"77.209"}, form.values["longitude"])
	assert.Equal(t, "image/jpeg", form.files["reportImage"])
}

func TestSubmitReport_NoCoordinatesNoImage(t *testing.T) {
	var form capturedForm
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		form = captureMultipart(t, r)
		writeJSON(w, http.StatusOK, models.Issue{ID: 4})
	}, "tok")

	_, err := c.SubmitReport(context.Background(), models.ReportForm{Name: "A", Email: "a@b.in", Title: "Corruption", Description: "d"})
	require.NoError(t, err)

	assert.NotContains(t, form.values, "latitude")
	assert.NotContains(t, form.values, "longitude")
	assert.Empty(t, form.files)
}
