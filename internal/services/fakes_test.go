package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/utils"
)

// In-memory repository fakes. Each stores copies so callers mutating a
// returned pointer do not leak changes past an explicit update, which
// mirrors how rows behave behind the real pgx repositories.

var okTag = pgconn.CommandTag("UPDATE 1")

/* ---------- tenants ---------- */

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*models.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[uuid.UUID]*models.Tenant{}}
}

func (f *fakeTenantRepo) Create(_ context.Context, t *models.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tenants[t.ID] = &cp
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTenantRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Tenant
	for _, t := range f.tenants {
		if t.PropertyID == propID && t.DeletedAt == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTenantRepo) ListActive(_ context.Context) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Tenant
	for _, t := range f.tenants {
		if t.MovedOutAt == nil && t.DeletedAt == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTenantRepo) UpdateIfVersion(_ context.Context, t *models.Tenant, _ int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	cp.RowVersion++
	f.tenants[t.ID] = &cp
	return okTag, nil
}

func (f *fakeTenantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil
	}
	cp := *t
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.tenants[id] = &cp
	return nil
}

func (f *fakeTenantRepo) AddCredit(_ context.Context, id uuid.UUID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tenants[id]; ok {
		t.Credit += amount
	}
	return nil
}

/* ---------- properties ---------- */

type fakePropertyRepo struct {
	mu    sync.Mutex
	props map[uuid.UUID]*models.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{props: map[uuid.UUID]*models.Property{}}
}

func (f *fakePropertyRepo) Create(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.props[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePropertyRepo) ListByLandlordID(_ context.Context, landlordID uuid.UUID) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Property
	for _, p := range f.props {
		if p.LandlordID == landlordID && p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePropertyRepo) ListAll(_ context.Context) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Property
	for _, p := range f.props {
		if p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.props[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, _ int64) (pgconn.CommandTag, error) {
	_ = f.Update(context.Background(), p)
	return okTag, nil
}

func (f *fakePropertyRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil
	}
	cp := *p
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.props[id] = &cp
	return nil
}

func (f *fakePropertyRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.props[id]; ok {
		now := p.CreatedAt
		p.DeletedAt = &now
	}
	return nil
}

/* ---------- units ---------- */

type fakeUnitRepo struct {
	mu    sync.Mutex
	units map[uuid.UUID]*models.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: map[uuid.UUID]*models.Unit{}}
}

func (f *fakeUnitRepo) CreateMany(_ context.Context, list []models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range list {
		cp := u
		f.units[u.ID] = &cp
	}
	return nil
}

func (f *fakeUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUnitRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Unit
	for _, u := range f.units {
		if u.PropertyID == propID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FloorIndex != out[j].FloorIndex {
			return out[i].FloorIndex < out[j].FloorIndex
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeUnitRepo) FindByLabel(_ context.Context, propID uuid.UUID, label string) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.units {
		if u.PropertyID == propID && u.Label == label {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUnitRepo) CountOccupiedByPropertyID(_ context.Context, propID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.units {
		if u.PropertyID == propID && u.Status == models.UnitStatusOccupied {
			n++
		}
	}
	return n, nil
}

func (f *fakeUnitRepo) UpdateIfVersion(_ context.Context, u *models.Unit, _ int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	cp.RowVersion++
	f.units[u.ID] = &cp
	return okTag, nil
}

func (f *fakeUnitRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.units[id]
	if !ok {
		return nil
	}
	cp := *u
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.units[id] = &cp
	return nil
}

func (f *fakeUnitRepo) DeleteByPropertyID(_ context.Context, propID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.units {
		if u.PropertyID == propID {
			delete(f.units, id)
		}
	}
	return nil
}

/* ---------- payments ---------- */

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*models.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) FindOpenByType(_ context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.Payment
	for _, p := range f.payments {
		if p.TenantID != tenantID || p.PropertyID != propID || p.Type != typ || !p.Open() {
			continue
		}
		if best == nil || p.DueDate.Before(best.DueDate) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakePaymentRepo) FindLatestByType(_ context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.Payment
	for _, p := range f.payments {
		if p.TenantID != tenantID || p.PropertyID != propID || p.Type != typ {
			continue
		}
		if best == nil || p.DueDate.After(best.DueDate) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakePaymentRepo) ListByTenantID(_ context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Payment
	for _, p := range f.payments {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakePaymentRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Payment
	for _, p := range f.payments {
		if p.PropertyID == propID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakePaymentRepo) ListOpenDueBefore(_ context.Context, cutoff time.Time) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Payment
	for _, p := range f.payments {
		if p.Open() && p.DueDate.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakePaymentRepo) UpdateIfVersion(_ context.Context, p *models.Payment, _ int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.RowVersion++
	f.payments[p.ID] = &cp
	return okTag, nil
}

func (f *fakePaymentRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Payment) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil
	}
	cp := *p
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.payments[id] = &cp
	return nil
}

/* ---------- mpesa transactions ---------- */

type fakeMpesaTxRepo struct {
	mu  sync.Mutex
	txs map[uuid.UUID]*models.MpesaTransaction
}

func newFakeMpesaTxRepo() *fakeMpesaTxRepo {
	return &fakeMpesaTxRepo{txs: map[uuid.UUID]*models.MpesaTransaction{}}
}

func (f *fakeMpesaTxRepo) Create(_ context.Context, tx *models.MpesaTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.txs {
		if existing.CheckoutRequestID == tx.CheckoutRequestID {
			return utils.ErrTransactionExists
		}
	}
	cp := *tx
	f.txs[tx.ID] = &cp
	return nil
}

func (f *fakeMpesaTxRepo) GetByID(_ context.Context, id uuid.UUID) (*models.MpesaTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.txs[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeMpesaTxRepo) FindByCheckoutRequestID(_ context.Context, checkoutRequestID string) (*models.MpesaTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if tx.CheckoutRequestID == checkoutRequestID {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMpesaTxRepo) UpdateIfVersion(_ context.Context, tx *models.MpesaTransaction, _ int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *tx
	cp.RowVersion++
	f.txs[tx.ID] = &cp
	return okTag, nil
}

func (f *fakeMpesaTxRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.MpesaTransaction) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.txs[id]
	if !ok {
		return nil
	}
	cp := *tx
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.txs[id] = &cp
	return nil
}

/* ---------- maintenance requests ---------- */

type fakeMaintenanceRepo struct {
	mu   sync.Mutex
	reqs map[uuid.UUID]*models.MaintenanceRequest
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{reqs: map[uuid.UUID]*models.MaintenanceRequest{}}
}

func (f *fakeMaintenanceRepo) Create(_ context.Context, m *models.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.reqs[m.ID] = &cp
	return nil
}

func (f *fakeMaintenanceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.reqs[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaintenanceRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MaintenanceRequest
	for _, m := range f.reqs {
		if m.PropertyID == propID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMaintenanceRepo) ListByTenantID(_ context.Context, tenantID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MaintenanceRequest
	for _, m := range f.reqs {
		if m.TenantID == tenantID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMaintenanceRepo) UpdateIfVersion(_ context.Context, m *models.MaintenanceRequest, _ int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	cp.RowVersion++
	f.reqs[m.ID] = &cp
	return okTag, nil
}

func (f *fakeMaintenanceRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.reqs[id]
	if !ok {
		return nil
	}
	cp := *m
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.reqs[id] = &cp
	return nil
}
