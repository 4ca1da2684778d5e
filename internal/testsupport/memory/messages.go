package memory

import (
	"context"
	"sort"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[msg.PlayerID]; !ok {
		return repositories.ErrMessagePlayerInvalid
	}
	r.s.nextMessageID++
	msg.ID = r.s.nextMessageID
	msg.Status = models.MessageOpen
	msg.CreatedAt = r.s.now()
	r.s.messages[msg.ID] = *msg
	return nil
}

func (r *messageRepo) List(ctx context.Context, status *models.MessageStatus) ([]models.ContactMessage, error) {
	r.s.mu.Lock()
	out := make([]models.ContactMessage, 0)
	for _, m := range r.s.messages {
		if status == nil || m.Status == *status {
			out = append(out, m)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *messageRepo) GetByID(ctx context.Context, id int) (*models.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, repositories.ErrMessageNotFound
	}
	return &m, nil
}

func (r *messageRepo) UpdateStatus(ctx context.Context, id int, from, next models.MessageStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.Status != from {
		return repositories.ErrMessageNotFound
	}
	m.Status = next
	r.s.messages[id] = m
	return nil
}

func (r *messageRepo) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return repositories.ErrMessageNotFound
	}
	delete(r.s.messages, id)
	return nil
}

func (r *messageRepo) CountByStatus(ctx context.Context, status models.MessageStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.messages {
		if m.Status == status {
			n++
		}
	}
	return n, nil
}
