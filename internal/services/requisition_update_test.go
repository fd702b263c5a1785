package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (r *fakeRequisitionRepo) Update(_ context.Context, _ pgx.Tx, q entities.Requisition) error {
	if _, ok := r.store.requisitions[q.ID]; !ok {
		return apperrors.ErrNotFound
	}
	q.Items = nil
	r.store.requisitions[q.ID] = &q
	return nil
}

func (r *fakeRequisitionLineRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64, _ authz.Scope) (*entities.RequisitionItem, error) {
	for _, l := range r.store.lines {
		if l.ID == id {
			copied := l
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRequisitionLineRepo) Update(_ context.Context, _ pgx.Tx, item entities.RequisitionItem) error {
	for i := range r.store.lines {
		if r.store.lines[i].ID == item.ID {
			r.store.lines[i] = item
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// decodeBody повторяет привязку тела PATCH в контроллере.
func decodeBody[T any](t *testing.T, body string) T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func requireBadRequestOn(t *testing.T, err error, field string) {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	details, ok := httpErr.Details.(map[string]string)
	require.True(t, ok, "ошибка без деталей по полям")
	assert.Contains(t, details, field)
}

func seedRequisition(f requisitionFixture) {
	f.store.requisitions[1] = &entities.Requisition{
		ID:              1,
		Number:          "ZAP/2024/05/17/1",
		ProjectID:       3,
		RequisitionType: constants.RequisitionTypeMaterial,
		Status:          constants.RequisitionStatusToAccept,
		Deadline:        deadline().Time(),
		CreatedBy:       5,
	}
}

func TestUpdateRequisition_RechecksStoredState(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		badField string
		want     func(t *testing.T, r *dto.RequisitionDTO)
	}{
		{name: "null status", body: `{"status": null}`, badField: "status"},
		{name: "null requisition_type", body: `{"requisition_type": null}`, badField: "requisition_type"},
		{name: "null deadline", body: `{"deadline": null}`, badField: "deadline"},
		{name: "null project", body: `{"project": null}`, badField: "project"},
		{name: "null status and type", body: `{"status": null, "requisition_type": null}`, badField: "requisition_type"},
		{
			name: "number is ignored",
			body: `{"status": "accepted", "number": "ZAP/1999/01/01/99"}`,
			want: func(t *testing.T, r *dto.RequisitionDTO) {
				assert.Equal(t, constants.RequisitionStatusAccepted, r.Status)
				assert.Equal(t, "ZAP/2024/05/17/1", r.Number)
			},
		},
		{
			name: "type and deadline change",
			body: `{"requisition_type": "tool", "deadline": "2024-07-01"}`,
			want: func(t *testing.T, r *dto.RequisitionDTO) {
				assert.Equal(t, constants.RequisitionTypeTool, r.RequisitionType)
				assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), r.Deadline.UTC())
				assert.Equal(t, constants.RequisitionStatusToAccept, r.Status)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRequisitionFixture()
			seedRequisition(f)
			ctx := actorCtx(5, false, authz.ManageRequisitions)

			payload := decodeBody[dto.UpdateRequisitionDTO](t, tc.body)
			updated, err := f.svc.UpdateRequisition(ctx, 1, payload, []byte(tc.body))

			if tc.badField != "" {
				requireBadRequestOn(t, err, tc.badField)
				stored := f.store.requisitions[1]
				assert.Equal(t, constants.RequisitionStatusToAccept, stored.Status)
				assert.Equal(t, constants.RequisitionTypeMaterial, stored.RequisitionType)
				return
			}
			require.NoError(t, err)
			tc.want(t, updated)
			assert.Equal(t, "ZAP/2024/05/17/1", f.store.requisitions[1].Number)
			assert.Equal(t, null.Int64From(5), f.store.requisitions[1].UpdatedBy)
		})
	}
}

func TestUpdateRequisition_ForeignRecordIsHidden(t *testing.T) {
	f := newRequisitionFixture()
	seedRequisition(f)

	body := `{"status": "accepted"}`
	_, err := f.svc.UpdateRequisition(actorCtx(6, false, authz.ManageRequisitions), 1,
		decodeBody[dto.UpdateRequisitionDTO](t, body), []byte(body))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, constants.RequisitionStatusToAccept, f.store.requisitions[1].Status)
}

func TestUpdateRequisitionItem_PriceResolution(t *testing.T) {
	cases := []struct {
		name      string
		itemID    uint64
		body      string
		badField  string
		wantPrice string
		wantQty   string
	}{
		{name: "null price falls back to item price", itemID: 1, body: `{"price": null}`, wantPrice: "10", wantQty: "2"},
		{name: "explicit price kept when absent", itemID: 1, body: `{"quantity": "3"}`, wantPrice: "15", wantQty: "3"},
		{name: "explicit price replaced", itemID: 1, body: `{"price": "12.50"}`, wantPrice: "12.5", wantQty: "2"},
		{name: "null price on unpriced item", itemID: 2, body: `{"price": null}`, badField: "price"},
		{name: "zero quantity", itemID: 1, body: `{"quantity": 0}`, badField: "quantity"},
		{name: "unknown item", itemID: 1, body: `{"item": 99}`, badField: "item"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRequisitionFixture()
			seedRequisition(f)
			f.store.lines = []entities.RequisitionItem{{
				ID:            1,
				RequisitionID: 1,
				ItemID:        tc.itemID,
				Quantity:      decimal.NewFromInt(2),
				Price:         decimal.NewFromInt(15),
			}}
			ctx := actorCtx(5, false, authz.ManageRequisitions)

			payload := decodeBody[dto.UpdateRequisitionItemDTO](t, tc.body)
			updated, err := f.svc.UpdateItem(ctx, 1, payload, []byte(tc.body))

			if tc.badField != "" {
				requireBadRequestOn(t, err, tc.badField)
				assert.Equal(t, "15", f.store.lines[0].Price.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPrice, updated.Price.String())
			assert.Equal(t, tc.wantQty, updated.Quantity.String())
		})
	}
}

type hrStore struct {
	requisitions map[uint64]*entities.HRRequisition
	positions    map[uint64]*entities.HRRequisitionPosition
}

type fakeHRRepo struct {
	repositories.HRRequisitionRepositoryInterface
	store *hrStore
}

func (r *fakeHRRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64, scope authz.Scope) (*entities.HRRequisition, error) {
	q, ok := r.store.requisitions[id]
	if !ok || (!scope.All && q.CreatedBy != scope.UserID) {
		return nil, apperrors.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (r *fakeHRRepo) Update(_ context.Context, _ pgx.Tx, q entities.HRRequisition) error {
	r.store.requisitions[q.ID] = &q
	return nil
}

func (r *fakeHRRepo) FindPositionByID(_ context.Context, _ pgx.Tx, id uint64, _ authz.Scope) (*entities.HRRequisitionPosition, error) {
	p, ok := r.store.positions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeHRRepo) UpdatePosition(_ context.Context, _ pgx.Tx, p entities.HRRequisitionPosition) error {
	r.store.positions[p.ID] = &p
	return nil
}

func newHRFixture() (HRRequisitionServiceInterface, *hrStore) {
	store := &hrStore{
		requisitions: map[uint64]*entities.HRRequisition{1: {
			ID:        1,
			Number:    "HR/2024/05/17/1",
			ProjectID: 3,
			Status:    constants.RequisitionStatusToAccept,
			Deadline:  deadline().Time(),
			CreatedBy: 5,
		}},
		positions: map[uint64]*entities.HRRequisitionPosition{1: {
			ID:            1,
			RequisitionID: 1,
			Position:      "monter",
			Quantity:      2,
			Experience:    "panele",
		}},
	}
	svc := NewHRRequisitionService(fakeTxManager{}, &fakeHRRepo{store: store}, &fixedSequence{}, &recordingPublisher{}, zap.NewNop())
	return svc, store
}

func TestUpdateHRRequisition_RechecksStoredState(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		badField   string
		wantStatus string
	}{
		{name: "null status", body: `{"status": null}`, badField: "status"},
		{name: "null deadline", body: `{"deadline": null}`, badField: "deadline"},
		{name: "status change", body: `{"status": "rejected", "number": "HR/1999/01/01/1"}`, wantStatus: constants.RequisitionStatusRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newHRFixture()
			ctx := actorCtx(5, false, authz.ManageHR)

			payload := decodeBody[dto.UpdateHRRequisitionDTO](t, tc.body)
			updated, err := svc.UpdateRequisition(ctx, 1, payload, []byte(tc.body))

			if tc.badField != "" {
				requireBadRequestOn(t, err, tc.badField)
				assert.Equal(t, constants.RequisitionStatusToAccept, store.requisitions[1].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, updated.Status)
			assert.Equal(t, "HR/2024/05/17/1", updated.Number)
		})
	}
}

func TestUpdateHRPosition_NullExperienceBecomesNone(t *testing.T) {
	svc, store := newHRFixture()
	ctx := actorCtx(5, false, authz.ManageHR)

	body := `{"experience": null}`
	updated, err := svc.UpdatePosition(ctx, 1, decodeBody[dto.UpdateHRPositionDTO](t, body), []byte(body))
	require.NoError(t, err)
	assert.Equal(t, constants.HRExperienceNone, updated.Experience)

	body = `{"position": null}`
	_, err = svc.UpdatePosition(ctx, 1, decodeBody[dto.UpdateHRPositionDTO](t, body), []byte(body))
	requireBadRequestOn(t, err, "position")
	assert.Equal(t, "monter", store.positions[1].Position)
}

type fakeTransportRepo struct {
	repositories.TransportRepositoryInterface
	requests map[uint64]*entities.TransportRequest
}

func (r *fakeTransportRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64, scope authz.Scope) (*entities.TransportRequest, error) {
	q, ok := r.requests[id]
	if !ok || (!scope.All && q.CreatedBy != scope.UserID) {
		return nil, apperrors.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (r *fakeTransportRepo) Update(_ context.Context, _ pgx.Tx, q entities.TransportRequest) error {
	r.requests[q.ID] = &q
	return nil
}

func TestUpdateTransportRequest_RechecksStoredState(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		badField   string
		wantStatus string
	}{
		{name: "null status", body: `{"status": null}`, badField: "status"},
		{name: "null loading_method", body: `{"loading_method": null}`, badField: "loading_method"},
		{name: "null pickup_address", body: `{"pickup_address": null}`, badField: "pickup_address"},
		{name: "delivery before pickup", body: `{"delivery_date": "2024-05-31"}`, badField: "delivery_date"},
		{name: "status change", body: `{"status": "accepted", "number": "TR/1999/01/01/1"}`, wantStatus: constants.TransportStatusAccepted},
		{name: "unrelated field", body: `{"notes": "Rozładunek dźwigiem"}`, wantStatus: constants.TransportStatusNew},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeTransportRepo{requests: map[uint64]*entities.TransportRequest{1: {
				ID:              1,
				Number:          "TR/2024/05/17/1",
				PickupAddress:   "Magazyn Opole",
				PickupDate:      deadline().Time(),
				DeliveryAddress: "Farma Brzeg",
				DeliveryDate:    deadline().Time().AddDate(0, 0, 2),
				LoadingMethod:   "internal",
				Status:          constants.TransportStatusNew,
				CreatedBy:       5,
			}}}
			publisher := &recordingPublisher{}
			svc := NewTransportService(fakeTxManager{}, repo, &fixedSequence{}, publisher, zap.NewNop())
			ctx := actorCtx(5, false, authz.ManageTransport)

			payload := decodeBody[dto.UpdateTransportRequestDTO](t, tc.body)
			updated, err := svc.UpdateRequest(ctx, 1, payload, []byte(tc.body))

			if tc.badField != "" {
				requireBadRequestOn(t, err, tc.badField)
				assert.Equal(t, constants.TransportStatusNew, repo.requests[1].Status)
				assert.Empty(t, publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, updated.Status)
			assert.Equal(t, "TR/2024/05/17/1", updated.Number)
			if tc.wantStatus != constants.TransportStatusNew {
				require.Len(t, publisher.events, 1)
				changed, ok := publisher.events[0].(events.TransportStatusChangedEvent)
				require.True(t, ok)
				assert.Equal(t, constants.TransportStatusNew, changed.OldStatus)
				assert.Equal(t, tc.wantStatus, changed.NewStatus)
			} else {
				assert.Empty(t, publisher.events)
			}
		})
	}
}

func TestTransportRequestDTO_TotalSkipsUnpricedLines(t *testing.T) {
	out := dto.NewTransportRequestDTO(&entities.TransportRequest{
		Items: []entities.TransportItem{
			{Quantity: decimal.NewFromInt(2), Price: decimal.NewNullDecimal(decimal.RequireFromString("150.00"))},
			{Quantity: decimal.NewFromInt(4)},
			{Quantity: decimal.RequireFromString("0.5"), Price: decimal.NewNullDecimal(decimal.NewFromInt(80))},
		},
	})
	assert.Equal(t, "340", out.TotalPrice.String())

	empty := dto.NewTransportRequestDTO(&entities.TransportRequest{})
	assert.True(t, empty.TotalPrice.IsZero())
	assert.NotNil(t, empty.Items)
}
