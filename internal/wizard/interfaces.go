package wizard

import (
	"context"

	"github.com/pow3r/cashout/pkg/cashout/domain"
)

// FlowRepo defines post flow persistence, matching repository.PostFlowRepository.
// Finders return (nil, nil) when nothing matches.
type FlowRepo interface {
	Save(ctx context.Context, f *domain.PostFlow) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.PostFlow, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.PostFlow, error)
	List(ctx context.Context, limit, offset int) ([]domain.PostFlow, error)
	// Update writes the flow and its steps if the stored version still equals
	// expectedVersion, and reports whether it did.
	Update(ctx context.Context, f *domain.PostFlow, expectedVersion int64) (bool, error)
}

// FlowActionRepo defines persistence of the flow audit trail.
type FlowActionRepo interface {
	Save(ctx context.Context, a *domain.FlowAction) (int64, error)
	FindAllByFlowID(ctx context.Context, flowID int64) ([]domain.FlowAction, error)
}

// GarageRepo defines persistence of posted listings.
type GarageRepo interface {
	Save(ctx context.Context, g *domain.GarageItem) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.GarageItem, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.GarageItem, error)
	List(ctx context.Context, limit, offset int) ([]domain.GarageItem, error)
}
