package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// ExpiredReason причина автоматического отклонения просроченной заявки
const ExpiredReason = "The reservation date passed before the request was reviewed"

// Service сервис для работы с бронированиями: просмотр и смена статусов
type Service struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	calendar        *availability.Calendar
	notifier        Notifier
	cache           CacheInvalidator
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований. cache и metrics могут быть nil.
func NewService(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	cal *availability.Calendar,
	notifier Notifier,
	cache CacheInvalidator,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		settings:        settings,
		calendar:        cal,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(reservation), nil
}

// List получает бронирования с фильтрацией по дате и статусу
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := "List: fetching reservations"
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}
	if filter.Date != nil {
		filter.Date = ptr.Ptr(s.calendar.Normalize(*filter.Date))
	}

	var found []*domain.Reservation
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.reservationRepo.GetByFilter(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations", len(found))
	return models.FromDomainReservationList(found), nil
}

// ListByRequester получает бронирования одного заявителя (по email, без учета регистра)
func (s *Service) ListByRequester(ctx context.Context, req *models.RequesterReservationsRequest) (*models.ReservationListResponse, error) {
	email := strings.TrimSpace(req.RequesterEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: requester email is required", ErrInvalidInput)
	}

	s.logger.Info("ListByRequester: fetching reservations for %s", email)

	filter := domain.ReservationFilter{RequesterEmail: &email}
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	var found []*domain.Reservation
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.reservationRepo.GetByFilter(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("ListByRequester: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByRequester - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByRequester: successfully fetched %d reservations", len(found))
	return models.FromDomainReservationList(found), nil
}

// Approve подтверждает заявку.
// Перед подтверждением повторно проверяется лимит пересечений без учета самой заявки.
func (s *Service) Approve(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Approve: approving reservation id=%d", id)

	settings := s.settings.GetSystemSettings(ctx)

	checkCapacity := func(txCtx context.Context, r *domain.Reservation) error {
		approved, err := s.reservationRepo.GetApprovedByDate(txCtx, r.Date)
		if err != nil {
			s.logger.Error("Approve: failed to get reservations: %v", err)
			return fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
		}

		resolution := availability.Resolve(availability.ResolveRequest{
			StartTime:            r.StartTime,
			EndTime:              r.EndTime,
			Reservations:         approved,
			MaxConcurrency:       settings.EffectiveCapacity(),
			AllowOverlapping:     settings.AllowOverlapping,
			ExcludeReservationID: &r.ID,
		})
		if !resolution.IsBookable {
			s.logger.Warn("Approve: reservation id=%d would exceed capacity, worst=%d/%d",
				id, resolution.WorstOccupancy, resolution.MaxCapacity)
			return fmt.Errorf("%w: %d overlapping reservation(s)", ErrCapacityExceeded, len(resolution.Overlapping))
		}
		return nil
	}

	updated, err := s.transition(ctx, "Approve", id, reservationRepo.StatusUpdate{Status: domain.StatusApproved}, checkCapacity)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, updated, settings, "")
	return models.FromDomainReservation(updated), nil
}

// Reject отклоняет заявку с необязательной причиной
func (s *Service) Reject(ctx context.Context, id int64, req *models.RejectReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Reject: rejecting reservation id=%d", id)

	reason, err := normalizeReason(req.Reason)
	if err != nil {
		s.logger.Warn("Reject: %v", err)
		return nil, err
	}

	settings := s.settings.GetSystemSettings(ctx)

	updated, err := s.transition(ctx, "Reject", id, reservationRepo.StatusUpdate{
		Status: domain.StatusRejected,
		Reason: reason,
	}, nil)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, updated, settings, ptr.Value(reason))
	return models.FromDomainReservation(updated), nil
}

// Cancel отменяет подтвержденное бронирование.
// Пользователь может отменить только своё бронирование, администратор любое.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by %s", id, req.Actor)

	if req.Actor != domain.ActorUser && req.Actor != domain.ActorAdmin {
		return nil, fmt.Errorf("%w: unknown actor %q", ErrInvalidInput, req.Actor)
	}

	reason, err := normalizeReason(req.Reason)
	if err != nil {
		s.logger.Warn("Cancel: %v", err)
		return nil, err
	}

	settings := s.settings.GetSystemSettings(ctx)

	checkOwner := func(_ context.Context, r *domain.Reservation) error {
		if req.Actor != domain.ActorUser {
			return nil
		}
		if !strings.EqualFold(strings.TrimSpace(req.RequesterEmail), strings.TrimSpace(r.RequesterEmail)) {
			s.logger.Warn("Cancel: access denied to reservation id=%d", id)
			return ErrAccessDenied
		}
		return nil
	}

	actor := req.Actor
	updated, err := s.transition(ctx, "Cancel", id, reservationRepo.StatusUpdate{
		Status:      domain.StatusCancelled,
		Reason:      reason,
		CancelledBy: &actor,
	}, checkOwner)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, updated, settings, ptr.Value(reason))
	return models.FromDomainReservation(updated), nil
}

// ExpireStalePending отклоняет заявки, дата которых уже прошла, а решение так и не принято.
// Возвращает количество отклоненных заявок.
func (s *Service) ExpireStalePending(ctx context.Context) (int, error) {
	today := s.calendar.Today(s.timeProvider.Now())
	pending := domain.StatusPending

	stale, err := s.reservationRepo.GetByFilter(ctx, domain.ReservationFilter{
		Status: &pending,
		Before: &today,
	})
	if err != nil {
		s.logger.Error("ExpireStalePending: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireStalePending - repository error: %v", ErrInternal, err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	settings := s.settings.GetSystemSettings(ctx)
	expired := 0

	for _, r := range stale {
		updated, err := s.transition(ctx, "ExpireStalePending", r.ID, reservationRepo.StatusUpdate{
			Status: domain.StatusRejected,
			Reason: ptr.Ptr(ExpiredReason),
		}, nil)
		if err != nil {
			// Заявку могли обработать параллельно, переходим к следующей
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrReservationNotFound) {
				continue
			}
			return expired, err
		}
		s.afterTransition(ctx, updated, settings, ExpiredReason)
		expired++
	}

	s.logger.Info("ExpireStalePending: rejected %d stale reservation(s)", expired)
	return expired, nil
}

// Вспомогательные методы

// transition выполняет смену статуса в сериализуемой транзакции.
// check вызывается после блокировки строки и до записи.
func (s *Service) transition(
	ctx context.Context,
	op string,
	id int64,
	update reservationRepo.StatusUpdate,
	check func(txCtx context.Context, r *domain.Reservation) error,
) (*domain.Reservation, error) {
	var result *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Получаем бронирование с блокировкой (FOR UPDATE)
		r, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("%s: reservation id=%d not found", op, id)
				return ErrReservationNotFound
			}
			s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		if !r.CanTransitionTo(update.Status) {
			s.logger.Warn("%s: reservation id=%d cannot move from %s to %s", op, id, r.Status, update.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, update.Status)
		}

		if check != nil {
			if err := check(txCtx, r); err != nil {
				return err
			}
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, id, update); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			s.logger.Error("%s: failed to update reservation id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		r.Status = update.Status
		r.StatusReason = update.Reason
		r.CancelledBy = update.CancelledBy
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: reservation id=%d is now %s", op, id, result.Status)
	return result, nil
}

// afterTransition выполняется после коммита. Ошибки уведомлений сюда не доходят.
func (s *Service) afterTransition(ctx context.Context, r *domain.Reservation, settings *domain.SystemSettings, reason string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(r.Status))
	}
	// Занятость меняется при подтверждении и при отмене подтвержденного
	if s.cache != nil && (r.Status == domain.StatusApproved || r.Status == domain.StatusCancelled) {
		s.cache.Invalidate(ctx)
	}
	s.notifier.Emit(notification.Events(r, settings.Email, false, reason, s.timeProvider.Now())...)
}

func normalizeReason(reason string) (*string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason cannot exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return &reason, nil
}
