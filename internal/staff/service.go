package staff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shipdeck/shipdeck/internal/authz"
	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
	"github.com/shipdeck/shipdeck/internal/shared"
)

// ResyncEnqueuer schedules a background grant resync for an account's
// other live sessions after its permissions change.
type ResyncEnqueuer interface {
	EnqueueGrantResync(ctx context.Context, panel authz.Panel, accountID int64) error
}

// Service handles staff listing and permission management.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	resync ResyncEnqueuer
	logger *slog.Logger
}

// NewService builds a Service instance. audit and resync may be nil.
func NewService(repo Repository, audit *shared.AuditLogger, resync ResyncEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, resync: resync, logger: logger}
}

// ListMembers returns the panel's staff members.
func (s *Service) ListMembers(ctx context.Context, panel authz.Panel, filters mdshared.ListFilters) ([]Member, int, error) {
	return s.repo.ListMembers(ctx, panel, filters)
}

// Grants returns the grant list assigned to a staff member.
func (s *Service) Grants(ctx context.Context, panel authz.Panel, staffID int64) ([]authz.Grant, error) {
	if _, err := s.repo.GetMember(ctx, panel, staffID); err != nil {
		return nil, err
	}
	return s.repo.GrantsForActor(ctx, panel, staffID)
}

// OrderGrants returns the slice of a member's grants managed on the
// Order Permission screen.
func (s *Service) OrderGrants(ctx context.Context, panel authz.Panel, staffID int64) ([]authz.Grant, error) {
	grants, err := s.Grants(ctx, panel, staffID)
	if err != nil {
		return nil, err
	}
	return scopedGrants(grants, true), nil
}

// UpdateGrants replaces the Global Permission slice of a staff
// member's grants and returns the authoritative list as stored. Order
// grants are untouched; they belong to the Order Permission screen.
// Every grant must name a known (module, action) pair for the panel;
// unknown labels are rejected so a typo cannot become a silent
// deny-all.
func (s *Service) UpdateGrants(ctx context.Context, panel authz.Panel, actingActorID, staffID int64, grants []authz.Grant) ([]authz.Grant, error) {
	return s.replaceScoped(ctx, panel, actingActorID, staffID, grants, false, "permissions.replace")
}

// UpdateOrderGrants replaces the Order Permission slice, leaving the
// rest of the member's grants in place.
func (s *Service) UpdateOrderGrants(ctx context.Context, panel authz.Panel, actingActorID, staffID int64, grants []authz.Grant) ([]authz.Grant, error) {
	return s.replaceScoped(ctx, panel, actingActorID, staffID, grants, true, "order_permissions.replace")
}

func (s *Service) replaceScoped(ctx context.Context, panel authz.Panel, actingActorID, staffID int64, grants []authz.Grant, orderScope bool, auditAction string) ([]authz.Grant, error) {
	if _, err := s.repo.GetMember(ctx, panel, staffID); err != nil {
		return nil, err
	}

	grants = authz.SanitizeGrants(grants, s.logger)
	for _, g := range grants {
		if authz.OrderScoped(g.Module) != orderScope {
			return nil, fmt.Errorf("%w: %q is managed on the other permission screen", mdshared.ErrValidation, g.Module)
		}
		if !authz.KnownPair(panel, g.Module, g.Action) {
			return nil, fmt.Errorf("%w: unknown permission %q / %q", mdshared.ErrValidation, g.Module, g.Action)
		}
	}
	for i := range grants {
		grants[i].Panel = string(panel)
	}

	existing, err := s.repo.GrantsForActor(ctx, panel, staffID)
	if err != nil {
		return nil, err
	}
	merged := append(scopedGrants(existing, !orderScope), grants...)

	if err := s.repo.ReplaceGrants(ctx, panel, staffID, merged); err != nil {
		return nil, err
	}

	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actingActorID,
			Panel:    string(panel),
			Action:   auditAction,
			Entity:   "staff",
			EntityID: fmt.Sprintf("%d", staffID),
			Meta:     map[string]any{"grant_count": len(grants)},
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("audit permission update", slog.Any("error", err))
		}
	}

	if s.resync != nil {
		if err := s.resync.EnqueueGrantResync(ctx, panel, staffID); err != nil && s.logger != nil {
			s.logger.Warn("enqueue grant resync", slog.Any("error", err))
		}
	}

	stored, err := s.repo.GrantsForActor(ctx, panel, staffID)
	if err != nil {
		return nil, err
	}
	return scopedGrants(stored, orderScope), nil
}

// scopedGrants filters to one permission screen's slice.
func scopedGrants(grants []authz.Grant, orderScope bool) []authz.Grant {
	out := make([]authz.Grant, 0, len(grants))
	for _, g := range grants {
		if authz.OrderScoped(g.Module) == orderScope {
			out = append(out, g)
		}
	}
	return out
}
