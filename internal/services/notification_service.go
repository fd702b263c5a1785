package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/mailer"
	"solarforyou/pkg/metrics"

	"go.uber.org/zap"
)

const (
	notificationKindRequisition   = "requisition"
	notificationKindHRRequisition = "hr_requisition"
)

// NotificationServiceInterface отправляет письма о новых заявках на склад и в отдел кадров.
type NotificationServiceInterface interface {
	NotifyRequisition(ctx context.Context, requisitionID uint64) error
	NotifyHRRequisition(ctx context.Context, requisitionID uint64) error
	// SendPending повторяет отправку по заявкам после since, письмо по которым не ушло.
	SendPending(ctx context.Context, since time.Time) (sent int, failed int)
}

type NotificationService struct {
	requisitionRepo   repositories.RequisitionRepositoryInterface
	hrRequisitionRepo repositories.HRRequisitionRepositoryInterface
	mailer            mailer.Mailer
	recipient         string
	baseURL           string
	logger            *zap.Logger
}

func NewNotificationService(
	requisitionRepo repositories.RequisitionRepositoryInterface,
	hrRequisitionRepo repositories.HRRequisitionRepositoryInterface,
	m mailer.Mailer,
	recipient string,
	baseURL string,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		requisitionRepo:   requisitionRepo,
		hrRequisitionRepo: hrRequisitionRepo,
		mailer:            m,
		recipient:         recipient,
		baseURL:           strings.TrimRight(baseURL, "/"),
		logger:            logger,
	}
}

func (s *NotificationService) NotifyRequisition(ctx context.Context, requisitionID uint64) error {
	r, err := s.requisitionRepo.FindByID(ctx, nil, requisitionID, authz.Scope{All: true})
	if err != nil {
		return fmt.Errorf("не удалось загрузить заявку %d: %w", requisitionID, err)
	}
	return s.sendRequisition(ctx, r)
}

func (s *NotificationService) NotifyHRRequisition(ctx context.Context, requisitionID uint64) error {
	r, err := s.hrRequisitionRepo.FindByID(ctx, nil, requisitionID, authz.Scope{All: true})
	if err != nil {
		return fmt.Errorf("не удалось загрузить кадровую заявку %d: %w", requisitionID, err)
	}
	return s.sendHRRequisition(ctx, r)
}

func (s *NotificationService) sendRequisition(ctx context.Context, r *entities.Requisition) error {
	err := s.mailer.Send(ctx, RequisitionMessage(r, s.recipient, s.baseURL))
	metrics.ObserveNotification(notificationKindRequisition, err)
	if err != nil {
		s.logger.Error("Не удалось отправить письмо о заявке", zap.String("number", r.Number), zap.Error(err))
		return err
	}
	if err := s.requisitionRepo.MarkEmailSent(ctx, r.ID); err != nil {
		s.logger.Error("Не удалось отметить отправку письма", zap.Uint64("id", r.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationService) sendHRRequisition(ctx context.Context, r *entities.HRRequisition) error {
	err := s.mailer.Send(ctx, HRRequisitionMessage(r, s.recipient, s.baseURL))
	metrics.ObserveNotification(notificationKindHRRequisition, err)
	if err != nil {
		s.logger.Error("Не удалось отправить письмо о кадровой заявке", zap.String("number", r.Number), zap.Error(err))
		return err
	}
	if err := s.hrRequisitionRepo.MarkEmailSent(ctx, r.ID); err != nil {
		s.logger.Error("Не удалось отметить отправку письма", zap.Uint64("id", r.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationService) SendPending(ctx context.Context, since time.Time) (int, int) {
	sent, failed := 0, 0
	requisitions, err := s.requisitionRepo.PendingNotification(ctx, since)
	if err != nil {
		s.logger.Error("Не удалось получить заявки без письма", zap.Error(err))
	}
	for _, r := range requisitions {
		if s.sendRequisition(ctx, r) == nil {
			sent++
		} else {
			failed++
		}
	}
	hrRequisitions, err := s.hrRequisitionRepo.PendingNotification(ctx, since)
	if err != nil {
		s.logger.Error("Не удалось получить кадровые заявки без письма", zap.Error(err))
	}
	for _, r := range hrRequisitions {
		if s.sendHRRequisition(ctx, r) == nil {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

// RequisitionMessage формирует текст письма о заявке на материалы.
func RequisitionMessage(r *entities.Requisition, recipient, baseURL string) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Nowe zapotrzebowanie: %s\n", r.Number)
	fmt.Fprintf(&b, "Projekt: %s\n", r.ProjectName)
	fmt.Fprintf(&b, "Zgłaszający: %s\n", r.CreatedByName)
	fmt.Fprintf(&b, "Termin: %s\n", r.Deadline.Format(constants.DisplayDateLayout))
	if r.Comment != "" {
		fmt.Fprintf(&b, "Komentarz: %s\n", r.Comment)
	}
	b.WriteString("\nPozycje:\n")
	for i, item := range r.Items {
		fmt.Fprintf(&b, "%d. [%s] %s - %s %s x %s zł\n",
			i+1, item.ItemIndex, item.ItemName, item.Quantity.String(), item.ItemUnit, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nRazem: %s zł\n", r.TotalPrice().StringFixed(2))
	fmt.Fprintf(&b, "%s/requisitions/%d\n", baseURL, r.ID)

	return mailer.Message{
		To:          []string{recipient},
		Subject:     fmt.Sprintf("Zapotrzebowanie %s - %s", r.Number, r.ProjectName),
		TextContent: b.String(),
	}
}

func HRRequisitionMessage(r *entities.HRRequisition, recipient, baseURL string) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Nowe zapotrzebowanie kadrowe: %s\n", r.Number)
	fmt.Fprintf(&b, "Projekt: %s\n", r.ProjectName)
	fmt.Fprintf(&b, "Zgłaszający: %s\n", r.CreatedByName)
	fmt.Fprintf(&b, "Termin: %s\n", r.Deadline.Format(constants.DisplayDateLayout))
	if r.SpecialRequirements != "" {
		fmt.Fprintf(&b, "Wymagania specjalne: %s\n", r.SpecialRequirements)
	}
	b.WriteString("\nStanowiska:\n")
	for i, p := range r.Positions {
		label := constants.HRPositionLabels[p.Position]
		if label == "" {
			label = p.Position
		}
		fmt.Fprintf(&b, "%d. %s x %d", i+1, label, p.Quantity)
		if p.Experience != "" {
			fmt.Fprintf(&b, " (doświadczenie: %s)", p.Experience)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nŁącznie osób: %d\n", r.TotalPeople())
	fmt.Fprintf(&b, "%s/hr-requisitions/%d\n", baseURL, r.ID)

	return mailer.Message{
		To:          []string{recipient},
		Subject:     fmt.Sprintf("Zapotrzebowanie kadrowe %s - %s", r.Number, r.ProjectName),
		TextContent: b.String(),
	}
}
