package business

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	messageentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
	scheduleentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/matcher"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/dto"
	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FallbackPrefix marks template pushes sent to users without the card
const FallbackPrefix = "【System Push】"

const minuteLayout = "200601021504"

// Sources groups what the engine reads and writes during a tick
type Sources struct {
	Schedules deps.ScheduleSource
	Cards     deps.CardSource
	Content   deps.ContentLookup
	Groups    deps.GroupLookup
	Sink      deps.DeliverySink
}

// Settings are the engine knobs taken from configuration
type Settings struct {
	Location       *time.Location
	FallbackHour   int
	FallbackMinute int
	ProjectCodes   []string
}

// NewSettings parses the fallback time "HH:MM"
func NewSettings(loc *time.Location, fallbackTime string, projectCodes []string) (Settings, error) {
	hour, minute, ok := matcher.ParseClock(fallbackTime)
	if !ok {
		return Settings{}, fmt.Errorf("invalid fallback time %q", fallbackTime)
	}
	if loc == nil {
		loc = time.Local
	}
	return Settings{
		Location:       loc,
		FallbackHour:   hour,
		FallbackMinute: minute,
		ProjectCodes:   projectCodes,
	}, nil
}

// Engine evaluates every schedule once per tick and runs the daily
// template broadcast.
type Engine struct {
	src      Sources
	guard    deps.FireGuard
	locker   deps.TickLocker
	settings Settings
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	running sync.Mutex
}

// NewEngine creates an engine; locker may be nil for a single instance
func NewEngine(
	src Sources,
	guard deps.FireGuard,
	locker deps.TickLocker,
	settings Settings,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		src:      src,
		guard:    guard,
		locker:   locker,
		settings: settings,
		metrics:  m,
		logger:   logger,
	}
}

var _ deps.TickRunner = (*Engine)(nil)

// RunTick evaluates the minute containing now. Failures of single items are
// logged and counted; an error is returned only when the tick did not run.
// A started tick ignores cancellation and deadlines of ctx and runs to
// completion.
func (e *Engine) RunTick(ctx context.Context, now time.Time) (*dto.TickReport, error) {
	ctx = context.WithoutCancel(ctx)

	if !e.running.TryLock() {
		e.metrics.RecordTickSkipped("local")
		e.logger.Warn().Time("at", now).Msg("previous tick still running, skipping")
		return nil, schedulererrors.ErrTickInProgress
	}
	defer e.running.Unlock()

	start := time.Now()
	now = now.In(e.settings.Location).Truncate(time.Minute)
	minute := now.Format(minuteLayout)

	report := &dto.TickReport{
		TickID: uuid.NewString(),
		At:     now,
	}
	log := e.logger.With().Str("tick_id", report.TickID).Str("minute", minute).Logger()

	if e.locker != nil {
		if err := e.locker.Acquire(ctx, minute); err != nil {
			e.metrics.RecordTickSkipped("distributed")
			log.Info().Err(err).Msg("tick taken by another instance")
			return nil, err
		}
	}

	log.Debug().Msg("tick started")

	e.subscribedPass(ctx, now, report, log)

	if now.Hour() == e.settings.FallbackHour && now.Minute() == e.settings.FallbackMinute {
		report.FallbackRan = true
		e.fallbackPass(ctx, now, report, log)
	}

	report.Duration = time.Since(start)
	e.metrics.RecordTick(report.Duration.Seconds())

	log.Info().
		Int("matched", report.Matched).
		Int("subscribed_fired", report.SubscribedFired).
		Bool("fallback_ran", report.FallbackRan).
		Int("fallback_fired", report.FallbackFired).
		Int("revoked", report.Revoked).
		Int("duplicates", report.Duplicates).
		Int("errors", report.Errors).
		Dur("duration", report.Duration).
		Msg("tick completed")

	return report, nil
}

func (e *Engine) subscribedPass(ctx context.Context, now time.Time, report *dto.TickReport, log zerolog.Logger) {
	schedules, err := e.src.Schedules.ListActive(ctx)
	if err != nil {
		e.itemError(report, log, "schedules", err).Msg("failed to list active schedules")
		return
	}

	minute := now.Format(minuteLayout)

	for i := range schedules {
		schedule := &schedules[i]

		slot, ok := matcher.MatchSlot(schedule, now)
		if !ok {
			continue
		}
		report.Matched++

		card, err := e.src.Cards.GetByID(ctx, schedule.SubscriptionID)
		if err != nil {
			e.itemError(report, log, "subscription", err).
				Uint("schedule_id", schedule.ID).
				Msg("failed to load subscription")
			continue
		}
		if !subscriptionLive(card, schedule) {
			report.Revoked++
			log.Debug().
				Uint("schedule_id", schedule.ID).
				Uint("subscription_id", schedule.SubscriptionID).
				Msg("subscription revoked, schedule skipped")
			continue
		}

		data, err := e.src.Content.CardData(ctx, schedule.Content)
		if err != nil {
			e.itemError(report, log, "content", err).
				Uint("schedule_id", schedule.ID).
				Str("content", schedule.Content).
				Msg("card data lookup failed")
			continue
		}

		key := fmt.Sprintf("sub:%d:slot:%d:%s", card.ID, slot.ID, minute)
		if !e.claim(ctx, key, messageentities.KindSubscribed, report, log) {
			continue
		}

		if _, err := e.src.Sink.Append(ctx, card.ID, schedule.UserID, messageentities.KindSubscribed, data); err != nil {
			e.itemError(report, log, "append", err).
				Uint("schedule_id", schedule.ID).
				Msg("failed to record subscribed push")
			continue
		}

		report.SubscribedFired++
		e.metrics.RecordPush(string(messageentities.KindSubscribed))
	}
}

func (e *Engine) fallbackPass(ctx context.Context, now time.Time, report *dto.TickReport, log zerolog.Logger) {
	minute := now.Format(minuteLayout)

	for _, project := range e.settings.ProjectCodes {
		groupIDs, err := e.src.Groups.GroupIDs(ctx, project)
		if err != nil {
			e.itemError(report, log, "groups", err).Str("project_code", project).Msg("group lookup failed")
			continue
		}

		for _, groupID := range groupIDs {
			userID, err := ParseGroupUserID(groupID)
			if err != nil {
				e.itemError(report, log, "group_id", err).
					Str("project_code", project).
					Str("group_id", groupID).
					Msg("skipping malformed group id")
				continue
			}

			e.fallbackForUser(ctx, project, userID, minute, report, log)
		}
	}
}

func (e *Engine) fallbackForUser(
	ctx context.Context,
	project string,
	userID int64,
	minute string,
	report *dto.TickReport,
	log zerolog.Logger,
) {
	cards, err := e.src.Cards.ListAll(ctx, userID, project)
	if err != nil {
		e.itemError(report, log, "cards", err).
			Int64("user_id", userID).
			Str("project_code", project).
			Msg("failed to list cards")
		return
	}

	type cardKey struct {
		content      string
		businessType cardentities.BusinessType
	}
	subscribed := make(map[cardKey]struct{})
	for _, card := range cards {
		if !card.IsTemplate() && card.Active {
			subscribed[cardKey{card.Content, card.BusinessType}] = struct{}{}
		}
	}

	for _, template := range cards {
		if !template.IsTemplate() || !template.Active {
			continue
		}
		if _, ok := subscribed[cardKey{template.Content, template.BusinessType}]; ok {
			continue
		}

		data, err := e.src.Content.CardData(ctx, template.Content)
		if err != nil {
			e.itemError(report, log, "content", err).
				Uint("template_id", template.ID).
				Str("content", template.Content).
				Msg("card data lookup failed")
			continue
		}

		key := fmt.Sprintf("tpl:%d:user:%d:proj:%s:%s", template.ID, userID, project, minute)
		if !e.claim(ctx, key, messageentities.KindFallback, report, log) {
			continue
		}

		if _, err := e.src.Sink.Append(ctx, template.ID, userID, messageentities.KindFallback, FallbackPrefix+data); err != nil {
			e.itemError(report, log, "append", err).
				Uint("template_id", template.ID).
				Int64("user_id", userID).
				Msg("failed to record fallback push")
			continue
		}

		report.FallbackFired++
		e.metrics.RecordPush(string(messageentities.KindFallback))
	}
}

// claim reports whether the push keyed by key may fire in this minute
func (e *Engine) claim(ctx context.Context, key string, kind messageentities.Kind, report *dto.TickReport, log zerolog.Logger) bool {
	ok, err := e.guard.Claim(ctx, key)
	if err != nil {
		e.itemError(report, log, "dedup", err).Str("key", key).Msg("fire guard unavailable")
		return false
	}
	if !ok {
		report.Duplicates++
		e.metrics.RecordDuplicate(string(kind))
		log.Debug().Str("key", key).Msg("duplicate fire suppressed")
	}
	return ok
}

func (e *Engine) itemError(report *dto.TickReport, log zerolog.Logger, stage string, err error) *zerolog.Event {
	report.Errors++
	e.metrics.RecordTickItemError(stage)

	if errors.Is(err, schedulererrors.ErrMalformedGroupID) {
		return log.Warn().Err(err).Str("stage", stage)
	}
	return log.Error().Err(err).Str("stage", stage)
}

func subscriptionLive(card *cardentities.CardSubscription, schedule *scheduleentities.PushSchedule) bool {
	return card != nil && card.Active && card.OwnedBy(schedule.UserID, schedule.ProjectCode)
}

// ParseGroupUserID reads the user id after the last "_" of a group id
func ParseGroupUserID(groupID string) (int64, error) {
	idx := strings.LastIndex(groupID, "_")
	if idx < 0 || idx == len(groupID)-1 {
		return 0, fmt.Errorf("%w: %q", schedulererrors.ErrMalformedGroupID, groupID)
	}

	userID, err := strconv.ParseInt(groupID[idx+1:], 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: %q", schedulererrors.ErrMalformedGroupID, groupID)
	}
	return userID, nil
}
