package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/internal/vikunja"
)

var errNotConfigured = errors.New("server URL and API token are not set, run 'quickadd auth login'")

// session bundles the state store and the remote client for one command
type session struct {
	cfg    *config.Config
	db     *db.DB
	client *vikunja.Client
}

// newClient builds a remote client from settings. Project metadata is
// written to state when it is non-nil.
func newClient(c *config.Config, state vikunja.StateWriter) (*vikunja.Client, error) {
	if !c.HasCredentials() {
		return nil, errNotConfigured
	}
	opts := []vikunja.Option{
		vikunja.WithTimeout(time.Duration(c.TimeoutSeconds) * time.Second),
	}
	if state != nil {
		opts = append(opts, vikunja.WithStateWriter(state))
	}
	return vikunja.NewClient(c.ServerURL, c.Token, opts...)
}

// openSession opens the state database and creates the remote client
func openSession() (*session, error) {
	database, err := db.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client, err := newClient(cfg, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	return &session{cfg: cfg, db: database, client: client}, nil
}

func (s *session) controller() *capture.Controller {
	return capture.New(s.client, s.db, s.cfg)
}

// Close closes the state database
func (s *session) Close() {
	_ = s.db.Close()
}
