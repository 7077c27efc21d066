// AngelaMos | 2026
// service.go

package asset

import (
	"context"

	"github.com/google/uuid"

	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

const recentWindowDays = 30

type Service struct {
	repo  Repository
	clock schedule.Clock
}

func NewService(repo Repository, clock schedule.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Fields) (*Asset, error) {
	asset := &Asset{
		ID:           uuid.New().String(),
		Name:         f.Name,
		Type:         f.Type,
		Description:  f.Description,
		PurchaseDate: f.PurchaseDate,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// Update overwrites every editable field. Concurrent edits are last writer
// wins.
func (s *Service) Update(ctx context.Context, id string, f Fields) (*Asset, error) {
	asset := &Asset{
		ID:           id,
		Name:         f.Name,
		Type:         f.Type,
		Description:  f.Description,
		PurchaseDate: f.PurchaseDate,
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	since := s.clock.Today().AddDays(-recentWindowDays).Time()
	return s.repo.Stats(ctx, since)
}
