package fixture

import (
	"fmt"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/common"
)

func (s *Server) register(name, email, password, phone string, verified bool, roles ...string) (models.User, error) {
	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	a := &account{
		user: models.User{
			Name:        name,
			Email:       email,
			PhoneNumber: phone,
			Enabled:     true,
			Verified:    verified,
			CreatedAt:   s.now().Format(createdAtLayout),
		},
		passwordHash: hash,
		roles:        roles,
	}
	if len(roles) > 0 {
		a.user.Role = roles[0]
	}
	if !verified {
		if a.verifyToken, err = common.MakeRandHexString(16); err != nil {
			return models.User{}, err
		}
	}
	if err := s.store.addAccount(a); err != nil {
		return models.User{}, err
	}
	return a.user, nil
}

// AddUser registers an already verified account.
func (s *Server) AddUser(name, email, password string, roles ...string) (models.User, error) {
	return s.register(name, email, password, "", true, roles...)
}

// Token signs a token for email without a password round-trip.
func (s *Server) Token(email string) (string, error) {
	a, ok := s.store.account(email)
	if !ok {
		return "", ErrNotFound
	}
	return GenerateToken(a.user.Email, a.roles, s.secret, s.ttl)
}

// VerificationToken is the pending email verification token of email.
func (s *Server) VerificationToken(email string) (string, bool) {
	a, ok := s.store.account(email)
	if !ok || a.verifyToken == "" {
		return "", false
	}
	return a.verifyToken, true
}

// Seed loads a demo admin, a demo citizen and a handful of complaints.
func (s *Server) Seed() error {
	if _, err := s.AddUser("Admin", "admin@nayidisha.in", "admin123", models.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.AddUser("Asha Verma", "asha@nayidisha.in", "asha123", models.RoleUser); err != nil {
		return err
	}

	lat, lon := 28.6139, 77.209
	samples := []models.Issue{
		{Title: "Water Supply Issue", Description: "No water since Monday after the flood", Status: models.StatusPending},
		{Title: "Garbage Collection", Description: "Bins overflowing near the market", Status: models.StatusInProgress},
		{Title: "Electricity Problem", Description: "Street lights out on ring road", Status: models.StatusResolved},
		{Title: "Traffic Management", Description: "Signal broken at crossing", Status: models.StatusRejected},
		{Title: "Environment", Description: "Flood water stagnant in park", Status: models.StatusPending},
	}
	for i, is := range samples {
		is.Name = "Asha Verma"
		is.Email = "asha@nayidisha.in"
		is.Location = "Connaught Place, New Delhi"
		is.CreatedAt = s.now().AddDate(0, 0, -i).Format(createdAtLayout)
		is.Latitude, is.Longitude = &lat, &lon
		s.store.AddIssue(is)
	}
	return nil
}
