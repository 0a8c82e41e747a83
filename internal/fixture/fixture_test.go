package fixture

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	s := New(WithHashCost(bcrypt.MinCost))
	_, err := s.AddUser("Admin", "admin@example.com", "secret", models.RoleAdmin)
	require.NoError(t, err)
	_, err = s.AddUser("Citizen", "citizen@example.com", "secret", models.RoleUser)
	require.NoError(t, err)
	return s
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func authed(t *testing.T, s *Server, email string, req *http.Request) *http.Request {
	t.Helper()
	token, err := s.Token(email)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("k")
	tok, err := GenerateToken("a@b.c", []string{models.RoleAdmin}, secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims.Subject)
	assert.Equal(t, []string{models.RoleAdmin}, claims.Roles)

	_, err = ParseToken(tok, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken("a@b.c", nil, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignIn(t *testing.T) {
	s := newServer(t)

	body := `{"email":"admin@example.com","password":"secret"}`
	rec := serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		JWT string `json:"jwt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := ParseToken(resp.JWT, s.secret)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleAdmin}, claims.Roles)

	bad := `{"email":"admin@example.com","password":"nope"}`
	rec = serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(bad)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestSignUpVerifyFlow(t *testing.T) {
	s := newServer(t)

	body := `{"username":"neo","email":"neo@example.com","password":"pw","phoneNumber":"1"}`
	rec := serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registered")

	rec = serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	signin := `{"email":"neo@example.com","password":"pw"}`
	rec = serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(signin)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unverified accounts cannot sign in")

	token, ok := s.VerificationToken("neo@example.com")
	require.True(t, ok)
	rec = serve(t, s, httptest.NewRequest(http.MethodGet, "/auth/verify?token="+token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(signin)))
	assert.Equal(t, http.StatusOK, rec.Code)

	claimsTok, err := s.Token("neo@example.com")
	require.NoError(t, err)
	claims, err := ParseToken(claimsTok, s.secret)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, claims.Roles)
}

func TestAdminRoutes_RequireTokenAndRole(t *testing.T) {
	s := newServer(t)

	rec := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/admin/issues", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := authed(t, s, "citizen@example.com", httptest.NewRequest(http.MethodGet, "/api/admin/issues", nil))
	assert.Equal(t, http.StatusForbidden, serve(t, s, req).Code)

	req = authed(t, s, "admin@example.com", httptest.NewRequest(http.MethodGet, "/api/admin/issues", nil))
	assert.Equal(t, http.StatusOK, serve(t, s, req).Code)
}

func TestListIssues_FilterAndPaginate(t *testing.T) {
	s := newServer(t)
	for i, title := range []string{"Water Supply Issue", "Garbage Collection", "Water leak"} {
		s.Store().AddIssue(models.Issue{
			Title:     title,
			Email:     "citizen@example.com",
			CreatedAt: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC).Format(createdAtLayout),
		})
	}

	req := authed(t, s, "admin@example.com",
		httptest.NewRequest(http.MethodGet, "/api/admin/issues?page=0&size=1&sortBy=createdAt&search=water", nil))
	rec := serve(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.Page[models.Issue]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Water leak", page.Content[0].Title, "newest first")
}

func TestTransitionAndDelete(t *testing.T) {
	s := newServer(t)
	is := s.Store().AddIssue(models.Issue{Title: "Environment", Email: "citizen@example.com"})

	req := authed(t, s, "admin@example.com", httptest.NewRequest(http.MethodPatch, "/api/admin/issues/1/resolve", nil))
	rec := serve(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, is.ID, updated.ID)
	assert.Equal(t, models.StatusResolved, updated.Status)

	req = authed(t, s, "admin@example.com", httptest.NewRequest(http.MethodPatch, "/api/admin/issues/1/reopen", nil))
	assert.Equal(t, http.StatusNotFound, serve(t, s, req).Code)

	req = authed(t, s, "admin@example.com", httptest.NewRequest(http.MethodDelete, "/api/admin/issues/1", nil))
	rec = serve(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())

	req = authed(t, s, "admin@example.com", httptest.NewRequest(http.MethodDelete, "/api/admin/issues/1", nil))
	assert.Equal(t, http.StatusNotFound, serve(t, s, req).Code)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestReportIssue_OwnedByCaller(t *testing.T) {
	s := newServer(t)
	body, ct := multipartBody(t, map[string]string{
		"name": "Citizen", "email": "someone@else.com", "title": "Environment",
		"description": "flooded", "latitude": "28.6139", "longitude": "77.209",
	}, "reportImage", "flood.png", "image/png")

	req := authed(t, s, "citizen@example.com", httptest.NewRequest(http.MethodPost, "/api/users/reportIssue/", body))
	req.Header.Set("Content-Type", ct)
	rec := serve(t, s, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "citizen@example.com", created.Email)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "/uploads/issues/flood.png", created.Picture)
	require.NotNil(t, created.Latitude)
	assert.InDelta(t, 28.6139, *created.Latitude, 1e-9)

	req = authed(t, s, "citizen@example.com", httptest.NewRequest(http.MethodGet, "/api/users/issues", nil))
	rec = serve(t, s, req)
	var mine []models.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	_, err := s.AddUser("Other", "other@example.com", "pw", models.RoleUser)
	require.NoError(t, err)
	req = authed(t, s, "other@example.com", httptest.NewRequest(http.MethodGet, "/api/users/reportIssue/1", nil))
	assert.Equal(t, http.StatusNotFound, serve(t, s, req).Code)
}

func TestUpdateProfile_RejectsNonImagePicture(t *testing.T) {
	s := newServer(t)

	body, ct := multipartBody(t, map[string]string{"name": "Renamed", "bio": "hi"}, "picture", "cv.pdf", "application/pdf")
	req := authed(t, s, "citizen@example.com", httptest.NewRequest(http.MethodPatch, "/api/users/profile/update", body))
	req.Header.Set("Content-Type", ct)
	rec := serve(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, "hi", p.Bio)
	assert.Empty(t, p.Picture)

	body, ct = multipartBody(t, map[string]string{"name": "Renamed"}, "picture", "me.jpg", "image/jpeg")
	req = authed(t, s, "citizen@example.com", httptest.NewRequest(http.MethodPatch, "/api/users/profile/update", body))
	req.Header.Set("Content-Type", ct)
	rec = serve(t, s, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "/uploads/profile/me.jpg", p.Picture)
}

func TestSeed(t *testing.T) {
	s := New(WithHashCost(bcrypt.MinCost))
	require.NoError(t, s.Seed())
	assert.Len(t, s.Store().Issues(IssueFilter{}), 5)
	assert.Len(t, s.Store().Issues(IssueFilter{Status: models.StatusPending}), 2)

	rec := serve(t, s, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
