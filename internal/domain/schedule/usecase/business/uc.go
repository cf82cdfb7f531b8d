package business

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/dto"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	scheduleerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/matcher"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
)

const saveAttempts = 2

type UseCase struct {
	repo    deps.ScheduleRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger

	writeMu sync.Mutex
}

func NewUseCase(repo deps.ScheduleRepository, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

var _ deps.ScheduleUseCase = (*UseCase)(nil)

// CreateOrReplace stores input as the only schedule of its subscription.
// An existing row keeps its id, is reactivated and gets its slots replaced.
func (u *UseCase) CreateOrReplace(ctx context.Context, input dto.CreateOrReplaceInput) (uint, error) {
	frequency, slots, err := validate(input)
	if err != nil {
		return 0, err
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	var id uint
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		id, err = u.saveTx(ctx, input, frequency, slots)
		if !errors.Is(err, scheduleerrors.ErrScheduleExists) {
			break
		}
	}
	if err != nil {
		u.logger.Error().Err(err).
			Int64("user_id", input.UserID).
			Uint("subscription_id", input.SubscriptionID).
			Msg("failed to save push schedule")
		return 0, err
	}

	u.metrics.RecordScheduleSaved()
	u.logger.Info().
		Uint("schedule_id", id).
		Uint("subscription_id", input.SubscriptionID).
		Str("frequency", string(frequency)).
		Int("slots", len(slots)).
		Msg("push schedule saved")

	return id, nil
}

func (u *UseCase) saveTx(
	ctx context.Context,
	input dto.CreateOrReplaceInput,
	frequency entities.Frequency,
	specs []entities.SlotSpec,
) (uint, error) {
	var id uint

	err := u.repo.InTx(ctx, func(tx deps.ScheduleRepository) error {
		existing, err := tx.FindBySubscription(ctx, input.UserID, input.ProjectCode, input.SubscriptionID)
		if err != nil {
			return err
		}

		schedule := &entities.PushSchedule{
			UserID:         input.UserID,
			ProjectCode:    input.ProjectCode,
			SubscriptionID: input.SubscriptionID,
			Frequency:      frequency,
			Content:        input.Content,
			BusinessType:   input.BusinessType,
			Active:         true,
		}

		if existing != nil {
			schedule.ID = existing.ID
			if err := tx.Overwrite(ctx, schedule); err != nil {
				return err
			}
			if err := tx.DeleteSlots(ctx, existing.ID); err != nil {
				return err
			}
		} else if err := tx.Create(ctx, schedule); err != nil {
			return err
		}

		id = schedule.ID
		return tx.CreateSlots(ctx, buildSlots(id, specs))
	})

	return id, err
}

// Cancel deactivates a schedule and soft-deletes its slots. It returns false
// when the schedule is absent or already inactive.
func (u *UseCase) Cancel(ctx context.Context, scheduleID uint) (bool, error) {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	cancelled := false
	err := u.repo.InTx(ctx, func(tx deps.ScheduleRepository) error {
		schedule, err := tx.GetByID(ctx, scheduleID)
		if err != nil {
			return err
		}
		if schedule == nil || !schedule.Active {
			return nil
		}
		if err := tx.Deactivate(ctx, scheduleID); err != nil {
			return err
		}
		cancelled = true
		return nil
	})
	if err != nil {
		u.logger.Error().Err(err).Uint("schedule_id", scheduleID).Msg("failed to cancel push schedule")
		return false, err
	}

	if !cancelled {
		u.logger.Info().Uint("schedule_id", scheduleID).Msg("push schedule absent or already inactive")
		return false, nil
	}

	u.metrics.RecordScheduleCancelled()
	u.logger.Info().Uint("schedule_id", scheduleID).Msg("push schedule cancelled")
	return true, nil
}

func (u *UseCase) GetByID(ctx context.Context, id uint) (*entities.PushSchedule, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *UseCase) ListActive(ctx context.Context) ([]entities.PushSchedule, error) {
	schedules, err := u.repo.ListActive(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("failed to list active push schedules")
		return nil, err
	}
	return schedules, nil
}

func (u *UseCase) GetBySubscription(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (*entities.PushSchedule, error) {
	return u.repo.FindBySubscription(ctx, userID, projectCode, subscriptionID)
}

func buildSlots(scheduleID uint, specs []entities.SlotSpec) []entities.TimeSlot {
	slots := make([]entities.TimeSlot, 0, len(specs))
	for _, spec := range specs {
		slots = append(slots, entities.TimeSlot{
			ScheduleID: scheduleID,
			Weekdays:   spec.Weekdays,
			MonthDays:  spec.MonthDays,
			Hours:      spec.Hours,
			Active:     true,
		})
	}
	return slots
}

// validate parses the frequency and returns normalized slot specs
func validate(input dto.CreateOrReplaceInput) (entities.Frequency, []entities.SlotSpec, error) {
	if input.UserID <= 0 {
		return "", nil, scheduleerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(input.ProjectCode) == "" {
		return "", nil, scheduleerrors.ErrInvalidProjectCode
	}
	if input.SubscriptionID == 0 {
		return "", nil, scheduleerrors.ErrInvalidSubscription
	}
	if input.BusinessType != cardentities.BusinessTypeCard && input.BusinessType != cardentities.BusinessTypeQuestion {
		return "", nil, scheduleerrors.ErrInvalidBusinessType
	}

	frequency, err := entities.ParseFrequency(input.Frequency)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", scheduleerrors.ErrInvalidFrequency, err)
	}

	if len(input.TimeSlots) == 0 {
		return "", nil, scheduleerrors.ErrNoTimeSlots
	}

	slots := make([]entities.SlotSpec, 0, len(input.TimeSlots))
	for i, spec := range input.TimeSlots {
		normalized, err := normalizeSlot(frequency, spec)
		if err != nil {
			return "", nil, fmt.Errorf("%w: slot %d: %v", scheduleerrors.ErrInvalidTimeSlot, i+1, err)
		}
		slots = append(slots, normalized)
	}

	return frequency, slots, nil
}

func normalizeSlot(frequency entities.Frequency, spec entities.SlotSpec) (entities.SlotSpec, error) {
	hours, err := normalizeClocks(spec.Hours)
	if err != nil {
		return entities.SlotSpec{}, err
	}

	weekdays, err := normalizeNumbers(spec.Weekdays, 1, 7)
	if err != nil {
		return entities.SlotSpec{}, fmt.Errorf("weekday: %w", err)
	}

	monthDays, err := normalizeNumbers(spec.MonthDays, 1, 31)
	if err != nil {
		return entities.SlotSpec{}, fmt.Errorf("month day: %w", err)
	}

	switch frequency {
	case entities.FrequencyWeekly:
		if weekdays == "" {
			return entities.SlotSpec{}, errors.New("weekly slots need weekdays")
		}
	case entities.FrequencyMonthly:
		if monthDays == "" {
			return entities.SlotSpec{}, errors.New("monthly slots need month days")
		}
	case entities.FrequencyDaily:
	}

	return entities.SlotSpec{Weekdays: weekdays, MonthDays: monthDays, Hours: hours}, nil
}

func normalizeClocks(list string) (string, error) {
	tokens := splitTokens(list)
	if len(tokens) == 0 {
		return "", errors.New("at least one hour is required")
	}

	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		h, m, ok := matcher.ParseClock(token)
		if !ok {
			return "", fmt.Errorf("hour %q is not HH:MM", token)
		}
		out = append(out, fmt.Sprintf("%02d:%02d", h, m))
	}
	return strings.Join(out, ","), nil
}

func normalizeNumbers(list string, lo, hi int) (string, error) {
	tokens := splitTokens(list)

	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		v, err := strconv.Atoi(token)
		if err != nil || v < lo || v > hi {
			return "", fmt.Errorf("%q is not in %d-%d", token, lo, hi)
		}
		out = append(out, strconv.Itoa(v))
	}
	return strings.Join(out, ","), nil
}

func splitTokens(list string) []string {
	var out []string
	for _, token := range strings.Split(list, ",") {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}
