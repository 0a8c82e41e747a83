package services

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/client/session"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
	"github.com/nayidisha/nayidisha-client/internal/client/storage"
	"github.com/nayidisha/nayidisha-client/internal/fixture"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail = "admin@nayidisha.in"
	userEmail  = "asha@nayidisha.in"
)

// harness wires the real client stack against an in-process backend.
type harness struct {
	fx      *fixture.Server
	session *session.Session
	client  *client.HTTPClient
	router  *router.Router
	d       *actions.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	fx := fixture.New(fixture.WithHashCost(bcrypt.MinCost))
	require.NoError(t, fx.Seed())
	srv := httptest.NewServer(fx.Handler())
	t.Cleanup(srv.Close)

	repos, err := storage.InitDatabase(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	log := logging.Nop()
	sess := session.New(repos.DB, log)
	r := router.New(sess, log)
	c, err := client.NewHTTPClient(srv.URL, sess, log,
		client.WithOnUnauthenticated(r.OnUnauthenticated),
		client.WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	d := actions.NewDispatcher(c, state.NewStore(), sess, log,
		actions.WithOnUnauthenticated(r.OnUnauthenticated))

	return &harness{
		fx:      fx,
		session: sess,
		client:  c,
		router:  r,
		d:       d,
	}
}

func (h *harness) signInAs(t *testing.T, email string) {
	t.Helper()
	tok, err := h.fx.Token(email)
	require.NoError(t, err)
	require.NoError(t, h.session.Login(context.Background(), tok))
}

// addIssues stores n extra pending complaints, newest last.
func (h *harness) addIssues(n int) {
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		h.fx.Store().AddIssue(models.Issue{
			Title:       "Public Nuisance",
			Name:        "Asha Verma",
			Email:       userEmail,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04:05"),
			Description: fmt.Sprintf("noise report %d", i),
		})
	}
}

func newDispatcherFor(c client.Client, h *harness) *actions.Dispatcher {
	return actions.NewDispatcher(c, state.NewStore(), h.session, logging.Nop(),
		actions.WithOnUnauthenticated(h.router.OnUnauthenticated))
}
