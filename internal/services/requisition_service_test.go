package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/eventbus"
	"solarforyou/pkg/numbering"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTxManager выполняет fn без реальной транзакции.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fixedSequence struct{ next int }

func (s *fixedSequence) Next(_ context.Context, _ pgx.Tx, kind numbering.Kind, at time.Time) (string, error) {
	s.next++
	return kind.Format(kind.Prefix(at), int64(s.next)), nil
}

type recordingPublisher struct{ events []eventbus.Event }

func (p *recordingPublisher) Publish(_ context.Context, e eventbus.Event) {
	p.events = append(p.events, e)
}

type fakeItemRepo struct {
	repositories.ItemRepositoryInterface
	items map[uint64]*entities.Item
}

func (r *fakeItemRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

// requisitionStore - общая память для фейков заявок и их позиций.
type requisitionStore struct {
	requisitions map[uint64]*entities.Requisition
	lines        []entities.RequisitionItem
	lastScope    authz.Scope
}

type fakeRequisitionRepo struct {
	repositories.RequisitionRepositoryInterface
	store *requisitionStore
}

func (r *fakeRequisitionRepo) Create(_ context.Context, _ pgx.Tx, q entities.Requisition) (uint64, error) {
	q.ID = uint64(len(r.store.requisitions) + 1)
	r.store.requisitions[q.ID] = &q
	return q.ID, nil
}

func (r *fakeRequisitionRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64, scope authz.Scope) (*entities.Requisition, error) {
	q, ok := r.store.requisitions[id]
	if !ok || (!scope.All && q.CreatedBy != scope.UserID) {
		return nil, apperrors.ErrNotFound
	}
	copied := *q
	copied.Items = []entities.RequisitionItem{}
	for _, l := range r.store.lines {
		if l.RequisitionID == id {
			copied.Items = append(copied.Items, l)
		}
	}
	return &copied, nil
}

func (r *fakeRequisitionRepo) GetAll(_ context.Context, _ types.Filter, scope authz.Scope) ([]*entities.Requisition, uint64, error) {
	r.store.lastScope = scope
	var list []*entities.Requisition
	for _, q := range r.store.requisitions {
		if scope.All || q.CreatedBy == scope.UserID {
			list = append(list, q)
		}
	}
	return list, uint64(len(list)), nil
}

type fakeRequisitionLineRepo struct {
	repositories.RequisitionItemRepositoryInterface
	store *requisitionStore
}

func (r *fakeRequisitionLineRepo) Create(_ context.Context, _ pgx.Tx, item entities.RequisitionItem) (uint64, error) {
	item.ID = uint64(len(r.store.lines) + 1)
	r.store.lines = append(r.store.lines, item)
	return item.ID, nil
}

type requisitionFixture struct {
	svc       RequisitionServiceInterface
	store     *requisitionStore
	publisher *recordingPublisher
}

func newRequisitionFixture() requisitionFixture {
	store := &requisitionStore{requisitions: map[uint64]*entities.Requisition{}}
	items := &fakeItemRepo{items: map[uint64]*entities.Item{
		1: {ID: 1, Index: "000001", Name: "Moduł PV 450W", Unit: "szt", Price: decimal.NewNullDecimal(decimal.RequireFromString("10.00"))},
		2: {ID: 2, Index: "000002", Name: "Kabel solarny", Unit: "m"},
	}}
	publisher := &recordingPublisher{}
	svc := NewRequisitionService(
		fakeTxManager{},
		&fakeRequisitionRepo{store: store},
		&fakeRequisitionLineRepo{store: store},
		items,
		&fixedSequence{},
		publisher,
		zap.NewNop(),
	)
	return requisitionFixture{svc: svc, store: store, publisher: publisher}
}

func actorCtx(userID uint64, staff bool, privileges ...string) context.Context {
	return authz.WithActor(context.Background(), &authz.Actor{
		UserID:     userID,
		Username:   "user",
		IsStaff:    staff,
		HasProfile: true,
		Privileges: authz.NewPrivileges(privileges...),
	})
}

func deadline() types.Date {
	return types.Date(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
}

func TestResolveLinePrice(t *testing.T) {
	priced := &entities.Item{Price: decimal.NewNullDecimal(decimal.RequireFromString("10.00"))}
	unpriced := &entities.Item{}

	testCases := []struct {
		name     string
		explicit decimal.NullDecimal
		item     *entities.Item
		want     string
		ok       bool
	}{
		{"цена товара по умолчанию", decimal.NullDecimal{}, priced, "10", true},
		{"явная цена важнее", decimal.NewNullDecimal(decimal.RequireFromString("7.5")), priced, "7.5", true},
		{"товар без цены", decimal.NullDecimal{}, unpriced, "0", false},
		{"нулевая явная цена", decimal.NewNullDecimal(decimal.Zero), priced, "0", false},
		{"отрицательная цена", decimal.NewNullDecimal(decimal.RequireFromString("-1")), unpriced, "0", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := ResolveLinePrice(tc.explicit, tc.item)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(price), "got %s", price)
		})
	}
}

func TestCreateRequisition_DefaultsLinePriceFromItem(t *testing.T) {
	f := newRequisitionFixture()
	ctx := actorCtx(5, false, authz.ManageRequisitions)

	created, err := f.svc.CreateRequisition(ctx, dto.CreateRequisitionDTO{
		ProjectID: 3,
		Deadline:  deadline(),
		Items: []dto.CreateRequisitionItemLineDTO{
			{ItemID: 1, Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.Items, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(created.Items[0].Price))
	assert.True(t, decimal.RequireFromString("40.00").Equal(created.TotalPrice))
	assert.Regexp(t, `^ZAP/\d{4}/\d{2}/\d{2}/1$`, created.Number)
	assert.Equal(t, "material", created.RequisitionType)
	assert.Equal(t, "to_accept", created.Status)
	assert.Equal(t, uint64(5), created.CreatedBy)

	require.Len(t, f.publisher.events, 1)
	event, ok := f.publisher.events[0].(events.RequisitionCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, created.ID, event.RequisitionID)
}

func TestCreateRequisition_UnpricedItemFails(t *testing.T) {
	f := newRequisitionFixture()
	ctx := actorCtx(5, false, authz.ManageRequisitions)

	_, err := f.svc.CreateRequisition(ctx, dto.CreateRequisitionDTO{
		ProjectID: 3,
		Deadline:  deadline(),
		Items:     []dto.CreateRequisitionItemLineDTO{{ItemID: 2, Quantity: decimal.NewFromInt(1)}},
	})

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Contains(t, httpErr.Details, "items[0].price")
	assert.Empty(t, f.store.requisitions)
	assert.Empty(t, f.publisher.events)
}

func TestValidateRequisition_DoesNotPersist(t *testing.T) {
	f := newRequisitionFixture()
	ctx := actorCtx(5, false, authz.ManageRequisitions)

	result, err := f.svc.ValidateRequisition(ctx, dto.CreateRequisitionDTO{
		ProjectID: 3,
		Items: []dto.CreateRequisitionItemLineDTO{
			{ItemID: 99, Quantity: decimal.NewFromInt(1)},
			{ItemID: 1, Quantity: decimal.Zero},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "deadline")
	assert.Contains(t, result.Errors, "items[0].item")
	assert.Contains(t, result.Errors, "items[1].quantity")
	assert.Empty(t, f.store.requisitions)

	ok, err := f.svc.ValidateRequisition(ctx, dto.CreateRequisitionDTO{
		ProjectID: 3,
		Deadline:  deadline(),
		Items:     []dto.CreateRequisitionItemLineDTO{{ItemID: 1, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)
}

func TestGetRequisitions_OwnOnlyWithoutBroadeningPrivilege(t *testing.T) {
	f := newRequisitionFixture()
	f.store.requisitions[1] = &entities.Requisition{ID: 1, Number: "ZAP/2024/05/17/1", CreatedBy: 5}
	f.store.requisitions[2] = &entities.Requisition{ID: 2, Number: "ZAP/2024/05/17/2", CreatedBy: 6}

	list, total, err := f.svc.GetRequisitions(actorCtx(5, false, authz.ManageRequisitions), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(5), list[0].CreatedBy)
	assert.False(t, f.store.lastScope.All)

	_, total, err = f.svc.GetRequisitions(actorCtx(5, false, authz.ManageRequisitions, authz.ViewAllRequisitions), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.True(t, f.store.lastScope.All)
}

func TestDeleteRequisition_ForeignRecordIsHidden(t *testing.T) {
	f := newRequisitionFixture()
	f.store.requisitions[1] = &entities.Requisition{ID: 1, Number: "ZAP/2024/05/17/1", CreatedBy: 6}

	err := f.svc.DeleteRequisition(actorCtx(5, false, authz.ManageRequisitions), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
