package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

type playerRepo struct{ s *Store }

func (r *playerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.players {
		if existing.PlayerName == p.PlayerName {
			return repositories.ErrPlayerNameConflict
		}
		if existing.Email == p.Email {
			return repositories.ErrPlayerEmailConflict
		}
	}
	r.s.nextPlayerID++
	p.ID = r.s.nextPlayerID
	p.Score = 0
	p.LastCheckin = nil
	p.CreatedAt = r.s.now()
	r.s.players[p.ID] = *p
	return nil
}

func (r *playerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *playerRepo) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	return r.find(func(p models.Player) bool { return p.Email == email })
}

func (r *playerRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Player, error) {
	return r.find(func(p models.Player) bool {
		return p.PlayerName == identifier || p.Email == identifier
	})
}

func (r *playerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrPlayerNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *playerRepo) UpdatePassword(ctx context.Context, exec repositories.SQLExecutor, id int, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PasswordHash = passwordHash
	r.s.players[id] = p
	return nil
}

func (r *playerRepo) Checkin(ctx context.Context, id int, day time.Time, reward int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok || (p.LastCheckin != nil && !p.LastCheckin.Before(day)) {
		return 0, repositories.ErrCheckinNotApplied
	}
	p.Score += reward
	d := day
	p.LastCheckin = &d
	r.s.players[id] = p
	return p.Score, nil
}

func (r *playerRepo) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	needle := strings.ToLower(filter.Search)

	r.s.mu.Lock()
	matched := make([]models.Player, 0)
	for _, p := range r.s.players {
		if strings.Contains(strings.ToLower(p.PlayerName), needle) || strings.Contains(strings.ToLower(p.Email), needle) {
			matched = append(matched, p)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *playerRepo) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.s.players, id)
	delete(r.s.permissions, id)
	for mid, m := range r.s.messages {
		if m.PlayerID == id {
			delete(r.s.messages, mid)
		}
	}
	return nil
}

func (r *playerRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.players), nil
}

func (r *playerRepo) find(match func(models.Player) bool) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.Player
	for _, p := range r.s.players {
		if match(p) && (found == nil || p.ID < found.ID) {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, repositories.ErrPlayerNotFound
	}
	return found, nil
}

type adminRepo struct{ s *Store }

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[username]
	if !ok {
		return nil, repositories.ErrAdminNotFound
	}
	return &a, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[admin.Username]; ok {
		return repositories.ErrAdminUsernameConflict
	}
	r.s.nextAdminID++
	admin.ID = r.s.nextAdminID
	r.s.admins[admin.Username] = *admin
	return nil
}

type verificationRepo struct{ s *Store }

func (r *verificationRepo) Upsert(ctx context.Context, v *models.PendingVerification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.verifications[v.Email] = *v
	return nil
}

func (r *verificationRepo) GetByEmail(ctx context.Context, email string) (*models.PendingVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.verifications[email]
	if !ok {
		return nil, repositories.ErrVerificationNotFound
	}
	return &v, nil
}

func (r *verificationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.verifications[email]; !ok {
		return repositories.ErrVerificationNotFound
	}
	delete(r.s.verifications, email)
	return nil
}

type resetRepo struct{ s *Store }

func (r *resetRepo) Upsert(ctx context.Context, reset *models.PasswordReset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resets[reset.Email] = *reset
	return nil
}

func (r *resetRepo) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reset := range r.s.resets {
		if reset.Token == token {
			return &reset, nil
		}
	}
	return nil, repositories.ErrPasswordResetNotFound
}

func (r *resetRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resets[email]; !ok {
		return repositories.ErrPasswordResetNotFound
	}
	delete(r.s.resets, email)
	return nil
}

type permissionRepo struct{ s *Store }

func (r *permissionRepo) HasSpecialPermission(ctx context.Context, playerID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.permissions[playerID], nil
}

func (r *permissionRepo) Grant(ctx context.Context, playerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[playerID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.s.permissions[playerID] = true
	return nil
}

func (r *permissionRepo) Revoke(ctx context.Context, playerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.permissions[playerID] {
		return repositories.ErrRecordNotFound
	}
	delete(r.s.permissions, playerID)
	return nil
}
