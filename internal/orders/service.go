package orders

import (
	"context"
	"fmt"
	"log/slog"

	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
	"github.com/shipdeck/shipdeck/internal/shared"
)

type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService builds a Service instance. audit may be nil.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context, scope Scope, status string, filters mdshared.ListFilters) ([]Order, int, error) {
	if status != "" && !KnownStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", mdshared.ErrValidation, status)
	}
	return s.repo.List(ctx, scope, status, filters)
}

func (s *Service) Get(ctx context.Context, scope Scope, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, mdshared.ErrInvalidID
	}
	return s.repo.Get(ctx, scope, id)
}

// UpdateStatus moves an order through its lifecycle. Delivered and
// cancelled orders are closed and reject further changes.
func (s *Service) UpdateStatus(ctx context.Context, scope Scope, panel string, actorID, id int64, status string) (Order, error) {
	if id <= 0 {
		return Order{}, mdshared.ErrInvalidID
	}
	if !KnownStatus(status) {
		return Order{}, fmt.Errorf("%w: unknown status %q", mdshared.ErrValidation, status)
	}

	current, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return Order{}, err
	}
	if terminal(current.Status) {
		return Order{}, fmt.Errorf("%w: order is %s", mdshared.ErrValidation, current.Status)
	}

	if err := s.repo.UpdateStatus(ctx, scope, id, status); err != nil {
		return Order{}, err
	}

	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Panel:    panel,
			Action:   "orders.status",
			Entity:   "order",
			EntityID: fmt.Sprintf("%d", id),
			Meta:     map[string]any{"from": current.Status, "to": status},
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("audit order status", slog.Any("error", err))
		}
	}

	current.Status = status
	return current, nil
}
