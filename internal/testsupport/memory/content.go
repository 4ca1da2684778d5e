package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

// ContentStore is a generic table keyed by an integer id.
type ContentStore[T any] struct {
	mu     sync.Mutex
	rows   map[int]T
	nextID int
	id     func(*T) *int
	stamp  func(*T, time.Time)
	less   func(a, b T) bool
}

func newContentStore[T any](id func(*T) *int, stamp func(*T, time.Time), less func(a, b T) bool) *ContentStore[T] {
	return &ContentStore[T]{rows: make(map[int]T), id: id, stamp: stamp, less: less}
}

func NewRuleStore() *ContentStore[models.Rule] {
	return newContentStore(
		func(r *models.Rule) *int { return &r.ID },
		func(r *models.Rule, t time.Time) { r.CreatedAt = t },
		func(a, b models.Rule) bool { return a.ID < b.ID },
	)
}

func NewCommandStore() *ContentStore[models.Command] {
	return newContentStore(
		func(c *models.Command) *int { return &c.ID },
		func(c *models.Command, t time.Time) { c.CreatedAt = t },
		func(a, b models.Command) bool { return a.ID < b.ID },
	)
}

func NewBanStore() *ContentStore[models.Ban] {
	return newContentStore(
		func(b *models.Ban) *int { return &b.ID },
		nil,
		func(a, b models.Ban) bool {
			if !a.BanDate.Equal(b.BanDate) {
				return a.BanDate.After(b.BanDate)
			}
			return a.ID > b.ID
		},
	)
}

func (c *ContentStore[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	out := make([]T, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, row)
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return c.less(out[i], out[j]) })
	return out, nil
}

func (c *ContentStore[T]) GetByID(ctx context.Context, id int) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.rows[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return &row, nil
}

func (c *ContentStore[T]) Create(ctx context.Context, item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	*c.id(item) = c.nextID
	if c.stamp != nil {
		c.stamp(item, time.Now())
	}
	c.rows[c.nextID] = *item
	return nil
}

func (c *ContentStore[T]) Update(ctx context.Context, item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := *c.id(item)
	if _, ok := c.rows[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	c.rows[id] = *item
	return nil
}

func (c *ContentStore[T]) Delete(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rows[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(c.rows, id)
	return nil
}

func (c *ContentStore[T]) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows), nil
}

// SponsorStore adds logo bookkeeping on top of the generic table.
type SponsorStore struct {
	*ContentStore[models.Sponsor]
	seq int
}

func NewSponsorStore() *SponsorStore {
	ss := &SponsorStore{}
	ss.ContentStore = newContentStore(
		func(s *models.Sponsor) *int { return &s.ID },
		func(s *models.Sponsor, t time.Time) {
			// created_at ties are common in tests; keep insertion order visible.
			ss.seq++
			s.CreatedAt = t.Add(time.Duration(ss.seq) * time.Microsecond)
		},
		func(a, b models.Sponsor) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	)
	return ss
}

func (s *SponsorStore) SetLogo(ctx context.Context, id int, logoKey *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	row.LogoKey = logoKey
	s.rows[id] = row
	return nil
}

var (
	_ repositories.ContentRepository[models.Rule]    = (*ContentStore[models.Rule])(nil)
	_ repositories.ContentRepository[models.Command] = (*ContentStore[models.Command])(nil)
	_ repositories.ContentRepository[models.Ban]     = (*ContentStore[models.Ban])(nil)
	_ repositories.SponsorRepository                 = (*SponsorStore)(nil)
)
