package controllers

import (
	"context"

	"github.com/pow3r/cashout/internal/wizard"
	"github.com/pow3r/cashout/pkg/cashout/domain"
)

// Mock repos for controller tests (implementing the wizard repository interfaces)

type MockFlowRepo struct {
	flows map[int64]domain.PostFlow

	FindByIDFunc func(ctx context.Context, id int64) (*domain.PostFlow, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]domain.PostFlow, error)
	UpdateFunc   func(ctx context.Context, f *domain.PostFlow, expectedVersion int64) (bool, error)
}

func copyFlow(f domain.PostFlow) *domain.PostFlow {
	f.Steps = append([]domain.WorkflowStep(nil), f.Steps...)
	return &f
}

func (m *MockFlowRepo) Save(ctx context.Context, f *domain.PostFlow) (int64, error) {
	if m.flows == nil {
		m.flows = map[int64]domain.PostFlow{}
	}
	f.ID = int64(len(m.flows) + 1)
	m.flows[f.ID] = *copyFlow(*f)
	return f.ID, nil
}
func (m *MockFlowRepo) FindByID(ctx context.Context, id int64) (*domain.PostFlow, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	f, ok := m.flows[id]
	if !ok {
		return nil, nil
	}
	return copyFlow(f), nil
}
func (m *MockFlowRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.PostFlow, error) {
	for _, f := range m.flows {
		if f.ExternalID == externalID {
			return copyFlow(f), nil
		}
	}
	return nil, nil
}
func (m *MockFlowRepo) List(ctx context.Context, limit, offset int) ([]domain.PostFlow, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	out := make([]domain.PostFlow, 0, len(m.flows))
	for id := int64(len(m.flows)); id > 0; id-- {
		out = append(out, m.flows[id])
	}
	return out, nil
}
func (m *MockFlowRepo) Update(ctx context.Context, f *domain.PostFlow, expectedVersion int64) (bool, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, f, expectedVersion)
	}
	if m.flows[f.ID].Version != expectedVersion {
		return false, nil
	}
	c := copyFlow(*f)
	c.Version = expectedVersion + 1
	m.flows[f.ID] = *c
	return true, nil
}

type MockFlowActionRepo struct {
	actions []domain.FlowAction

	FindAllByFlowIDFunc func(ctx context.Context, flowID int64) ([]domain.FlowAction, error)
}

func (m *MockFlowActionRepo) Save(ctx context.Context, a *domain.FlowAction) (int64, error) {
	a.ID = int64(len(m.actions) + 1)
	m.actions = append(m.actions, *a)
	return a.ID, nil
}
func (m *MockFlowActionRepo) FindAllByFlowID(ctx context.Context, flowID int64) ([]domain.FlowAction, error) {
	if m.FindAllByFlowIDFunc != nil {
		return m.FindAllByFlowIDFunc(ctx, flowID)
	}
	out := make([]domain.FlowAction, 0)
	for _, a := range m.actions {
		if a.FlowID == flowID {
			out = append(out, a)
		}
	}
	return out, nil
}

type MockGarageRepo struct {
	items []domain.GarageItem

	ListFunc func(ctx context.Context, limit, offset int) ([]domain.GarageItem, error)
}

func (m *MockGarageRepo) Save(ctx context.Context, g *domain.GarageItem) (int64, error) {
	g.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *g)
	return g.ID, nil
}
func (m *MockGarageRepo) FindByID(ctx context.Context, id int64) (*domain.GarageItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}
func (m *MockGarageRepo) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.GarageItem, error) {
	for _, it := range m.items {
		if it.Fingerprint == fingerprint {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}
func (m *MockGarageRepo) List(ctx context.Context, limit, offset int) ([]domain.GarageItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.items, nil
}

func newTestManager() (*wizard.Manager, *MockFlowRepo, *MockGarageRepo) {
	flows := &MockFlowRepo{}
	garage := &MockGarageRepo{}
	return wizard.NewManager(flows, &MockFlowActionRepo{}, garage, nil), flows, garage
}
