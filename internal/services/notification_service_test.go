package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/mailer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent   []mailer.Message
	failOn string
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.failOn != "" && strings.Contains(msg.Subject, m.failOn) {
		return errors.New("smtp niedostępny")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type pendingRequisitionRepo struct {
	repositories.RequisitionRepositoryInterface
	pending []*entities.Requisition
	marked  []uint64
}

func (r *pendingRequisitionRepo) PendingNotification(context.Context, time.Time) ([]*entities.Requisition, error) {
	return r.pending, nil
}

func (r *pendingRequisitionRepo) MarkEmailSent(_ context.Context, id uint64) error {
	r.marked = append(r.marked, id)
	return nil
}

type pendingHRRequisitionRepo struct {
	repositories.HRRequisitionRepositoryInterface
	pending []*entities.HRRequisition
	marked  []uint64
}

func (r *pendingHRRequisitionRepo) PendingNotification(context.Context, time.Time) ([]*entities.HRRequisition, error) {
	return r.pending, nil
}

func (r *pendingHRRequisitionRepo) MarkEmailSent(_ context.Context, id uint64) error {
	r.marked = append(r.marked, id)
	return nil
}

func sampleRequisition() *entities.Requisition {
	return &entities.Requisition{
		ID:            7,
		Number:        "ZAP/2024/05/17/3",
		ProjectName:   "Farma Kowalewo",
		CreatedByName: "Jan Nowak",
		Deadline:      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Items: []entities.RequisitionItem{
			{ItemIndex: "000001", ItemName: "Moduł PV", ItemUnit: "szt", Quantity: decimal.NewFromInt(4), Price: decimal.RequireFromString("10.00")},
			{ItemIndex: "000002", ItemName: "Kabel", ItemUnit: "m", Quantity: decimal.RequireFromString("2.5"), Price: decimal.RequireFromString("3.20")},
		},
	}
}

func TestRequisitionMessage(t *testing.T) {
	msg := RequisitionMessage(sampleRequisition(), "magazyn@example.com", "https://app.example.com")

	assert.Equal(t, []string{"magazyn@example.com"}, msg.To)
	assert.Equal(t, "Zapotrzebowanie ZAP/2024/05/17/3 - Farma Kowalewo", msg.Subject)
	assert.Contains(t, msg.TextContent, "Termin: 01.06.2024")
	assert.Contains(t, msg.TextContent, "1. [000001] Moduł PV - 4 szt x 10.00 zł")
	assert.Contains(t, msg.TextContent, "Razem: 48.00 zł")
	assert.Contains(t, msg.TextContent, "https://app.example.com/requisitions/7")
}

func TestHRRequisitionMessage(t *testing.T) {
	r := &entities.HRRequisition{
		ID:          3,
		Number:      "HR/2024/05/17/1",
		ProjectName: "Farma Kowalewo",
		Positions: []entities.HRRequisitionPosition{
			{Position: "monter", Quantity: 3, Experience: "panele"},
			{Position: "nieznane", Quantity: 2},
		},
	}
	msg := HRRequisitionMessage(r, "kadry@example.com", "https://app.example.com")

	assert.Equal(t, "Zapotrzebowanie kadrowe HR/2024/05/17/1 - Farma Kowalewo", msg.Subject)
	assert.Contains(t, msg.TextContent, "(doświadczenie: panele)")
	assert.Contains(t, msg.TextContent, "2. nieznane x 2")
	assert.Contains(t, msg.TextContent, "Łącznie osób: 5")
	assert.Contains(t, msg.TextContent, "https://app.example.com/hr-requisitions/3")
}

func TestSendPending_MarksOnlyDelivered(t *testing.T) {
	ok := sampleRequisition()
	broken := sampleRequisition()
	broken.ID, broken.Number = 8, "ZAP/2024/05/17/4"

	reqRepo := &pendingRequisitionRepo{pending: []*entities.Requisition{ok, broken}}
	hrRepo := &pendingHRRequisitionRepo{pending: []*entities.HRRequisition{{ID: 2, Number: "HR/2024/05/17/1"}}}
	m := &recordingMailer{failOn: "ZAP/2024/05/17/4"}

	svc := NewNotificationService(reqRepo, hrRepo, m, "biuro@example.com", "https://app.example.com/", zap.NewNop())
	sent, failed := svc.SendPending(context.Background(), time.Now().Add(-24*time.Hour))

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []uint64{7}, reqRepo.marked)
	assert.Equal(t, []uint64{2}, hrRepo.marked)
	require.Len(t, m.sent, 2)
	// завершающий слэш базового адреса не удваивается
	assert.Contains(t, m.sent[0].TextContent, "https://app.example.com/requisitions/7")
}
