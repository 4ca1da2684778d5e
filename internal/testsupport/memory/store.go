// Package memory holds in-process implementations of the repository
// interfaces. They back the service and router tests and mirror the
// constraint behaviour of the Postgres schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

// Store is a single in-memory database shared by every repository it hands out.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	players      map[int]models.Player
	nextPlayerID int

	admins      map[string]models.AdminUser
	nextAdminID int

	verifications map[string]models.PendingVerification
	resets        map[string]models.PasswordReset
	permissions   map[int]bool

	messages      map[int]models.ContactMessage
	nextMessageID int
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		players:       make(map[int]models.Player),
		admins:        make(map[string]models.AdminUser),
		verifications: make(map[string]models.PendingVerification),
		resets:        make(map[string]models.PasswordReset),
		permissions:   make(map[int]bool),
		messages:      make(map[int]models.ContactMessage),
	}
}

// SetNow replaces the timestamp source used for created_at columns.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Players() repositories.PlayerRepository { return &playerRepo{s} }

func (s *Store) Admins() repositories.AdminRepository { return &adminRepo{s} }

func (s *Store) Verifications() repositories.VerificationRepository { return &verificationRepo{s} }

func (s *Store) PasswordResets() repositories.PasswordResetRepository { return &resetRepo{s} }

func (s *Store) Permissions() repositories.PermissionRepository { return &permissionRepo{s} }

func (s *Store) Messages() repositories.MessageRepository { return &messageRepo{s} }

// GrantPermission inserts a special_permissions row for playerID.
func (s *Store) GrantPermission(playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions[playerID] = true
}

type snapshot struct {
	players       map[int]models.Player
	nextPlayerID  int
	verifications map[string]models.PendingVerification
	resets        map[string]models.PasswordReset
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		players:       cloneMap(s.players),
		nextPlayerID:  s.nextPlayerID,
		verifications: cloneMap(s.verifications),
		resets:        cloneMap(s.resets),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = snap.players
	s.nextPlayerID = snap.nextPlayerID
	s.verifications = snap.verifications
	s.resets = snap.resets
}

// Transactor restores the account tables when fn fails. It is not isolated
// from concurrent writers.
func (s *Store) Transactor() repositories.Transactor { return &transactor{s} }

type transactor struct{ s *Store }

func (t *transactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := t.s.snapshot()
	if err := fn(nil); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
