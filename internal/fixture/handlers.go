package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/common"
)

const maxUpload = 8 << 20

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request")
		return
	}

	a, ok := s.store.account(req.Email)
	if !ok || !checkPassword(a.passwordHash, req.Password) {
		respondError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if !a.user.Verified {
		respondError(w, http.StatusBadRequest, "Please verify your email before logging in")
		return
	}

	token, err := GenerateToken(a.user.Email, a.roles, s.secret, s.ttl)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"jwt": token})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	if _, err := s.register(req.Username, req.Email, req.Password, req.PhoneNumber, false, roles...); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondText(w, http.StatusOK, "User registered successfully. Please verify your email.")
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" || !s.store.verify(token) {
		respondText(w, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}
	respondText(w, http.StatusOK, "Email verified successfully")
}

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)
	issues := s.store.Issues(IssueFilter{
		Search: q.Get("search"),
		Status: models.IssueStatus(q.Get("status")),
		SortBy: q.Get("sortBy"),
	})
	respondJSON(w, http.StatusOK, paginate(issues, page, size))
}

func (s *Server) viewIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	is, found := s.store.issue(id)
	if !found {
		respondError(w, http.StatusNotFound, "Issue not found")
		return
	}
	respondJSON(w, http.StatusOK, is)
}

var transitions = map[string]models.IssueStatus{
	"in-progress": models.StatusInProgress,
	"reject":      models.StatusRejected,
	"resolve":     models.StatusResolved,
}

func (s *Server) transitionIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status, ok := transitions[chi.URLParam(r, "transition")]
	if !ok {
		respondError(w, http.StatusNotFound, "Unknown transition")
		return
	}
	is, found := s.store.setStatus(id, status)
	if !found {
		respondError(w, http.StatusNotFound, "Issue not found")
		return
	}
	respondJSON(w, http.StatusOK, is)
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.store.deleteIssue(id) {
		respondError(w, http.StatusNotFound, "Issue not found")
		return
	}
	respondJSON(w, http.StatusOK, models.DeleteAck{ID: id})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	respondJSON(w, http.StatusOK, paginate(s.store.users(r.URL.Query().Get("sortBy")), page, size))
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	a, ok := s.store.account(claimsFrom(r.Context()).Subject)
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, profileOf(a))
}

// updateProfile saves the text fields even when the picture is rejected;
// the response then carries no picture, which the client reports as a
// partial failure.
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	form := r.MultipartForm

	picture := ""
	if files := form.File["picture"]; len(files) > 0 {
		if strings.HasPrefix(files[0].Header.Get(common.ContentTypeHeader), "image/") {
			picture = "/uploads/profile/" + path.Base(files[0].Filename)
		}
	}

	a, err := s.store.updateProfile(claimsFrom(r.Context()).Subject, func(a *account) {
		a.user.Name = firstValue(form.Value, "name", a.user.Name)
		a.user.PhoneNumber = firstValue(form.Value, "phoneNumber", a.user.PhoneNumber)
		a.address = firstValue(form.Value, "address", a.address)
		a.bio = firstValue(form.Value, "bio", a.bio)
		a.user.Picture = picture
	})
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, profileOf(a))
}

func (s *Server) reportIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	v := r.MultipartForm.Value

	is := models.Issue{
		Title:       firstValue(v, "title", ""),
		Name:        firstValue(v, "name", ""),
		Email:       firstValue(v, "email", ""),
		PhoneNumber: firstValue(v, "phoneNumber", ""),
		Address:     firstValue(v, "address", ""),
		Location:    firstValue(v, "location", ""),
		Description: firstValue(v, "description", ""),
		CreatedAt:   s.now().Format(createdAtLayout),
	}
	if is.Title == "" || is.Name == "" || is.Email == "" || is.Description == "" {
		respondError(w, http.StatusBadRequest, "name, email, title and description are required")
		return
	}
	if files := r.MultipartForm.File["reportImage"]; len(files) > 0 {
		is.Picture = "/uploads/issues/" + path.Base(files[0].Filename)
	}
	is.Latitude = parseCoord(firstValue(v, "latitude", ""))
	is.Longitude = parseCoord(firstValue(v, "longitude", ""))

	// Issues belong to the signed-in account even if the form says otherwise.
	is.Email = claimsFrom(r.Context()).Subject
	respondJSON(w, http.StatusCreated, s.store.AddIssue(is))
}

func (s *Server) myIssues(w http.ResponseWriter, r *http.Request) {
	issues := s.store.Issues(IssueFilter{Email: claimsFrom(r.Context()).Subject})
	respondJSON(w, http.StatusOK, issues)
}

func (s *Server) viewReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	is, found := s.store.issue(id)
	if !found || !strings.EqualFold(is.Email, claimsFrom(r.Context()).Subject) {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	}
	respondJSON(w, http.StatusOK, is)
}

func profileOf(a *account) models.Profile {
	role := ""
	if len(a.roles) > 0 {
		role = a.roles[0]
	}
	return models.Profile{
		Name:        a.user.Name,
		Email:       a.user.Email,
		PhoneNumber: a.user.PhoneNumber,
		Address:     a.address,
		Bio:         a.bio,
		Picture:     a.user.Picture,
		Role:        role,
		Enabled:     a.user.Enabled,
		Verified:    a.user.Verified,
	}
}

func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return page, size
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}

func firstValue(values map[string][]string, key, fallback string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return fallback
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
