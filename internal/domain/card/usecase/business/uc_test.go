package business

import (
	"context"
	"sync"
	"testing"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	carderrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/repository/postgres"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/database"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUseCase(t *testing.T) (*UseCase, *gorm.DB) {
	t.Helper()

	db, err := database.NewTestDB()
	require.NoError(t, err)

	return NewUseCase(postgres.NewRepository(db), metrics.GetDefaultMetrics(), zerolog.Nop()), db
}

func countRows(t *testing.T, db *gorm.DB, where string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&entities.CardSubscription{}).Where(where, args...).Count(&n).Error)
	return n
}

func TestSubscribe_Idempotent(t *testing.T) {
	uc, db := newTestUseCase(t)
	ctx := context.Background()

	first, err := uc.Subscribe(ctx, 1001, "P1", entities.StudyReportCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	second, err := uc.Subscribe(ctx, 1001, "P1", entities.StudyReportCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), countRows(t, db, "user_id = ? AND active = ?", 1001, true))
}

func TestSubscribe_ReactivatesSameRow(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	id, err := uc.Subscribe(ctx, 1001, "P1", entities.PlanProgressCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	outcome, err := uc.Unsubscribe(ctx, 1001, "P1", id)
	require.NoError(t, err)
	require.True(t, outcome.Unsubscribed)

	again, err := uc.Subscribe(ctx, 1001, "P1", entities.PlanProgressCard, entities.BusinessTypeCard)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	card, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, card.Active)
}

func TestSubscribe_CopiesCancellableFromTemplate(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))

	focusID, err := uc.Subscribe(ctx, 1001, "P1", entities.DailyFocusCard, entities.BusinessTypeCard)
	require.NoError(t, err)
	focus, err := uc.GetByID(ctx, focusID)
	require.NoError(t, err)
	assert.False(t, focus.Cancellable)

	aidID, err := uc.Subscribe(ctx, 1001, "P1", entities.TeachingAidProcurement, entities.BusinessTypeCard)
	require.NoError(t, err)
	aid, err := uc.GetByID(ctx, aidID)
	require.NoError(t, err)
	assert.True(t, aid.Cancellable)

	// no template for questions with the same content
	questionID, err := uc.Subscribe(ctx, 1001, "P1", entities.DailyFocusCard, entities.BusinessTypeQuestion)
	require.NoError(t, err)
	question, err := uc.GetByID(ctx, questionID)
	require.NoError(t, err)
	assert.True(t, question.Cancellable)
}

func TestUnsubscribe_NonCancellableNeverMutates(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))

	id, err := uc.Subscribe(ctx, 1001, "P1", entities.DailyFocusCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		outcome, err := uc.Unsubscribe(ctx, 1001, "P1", id)
		require.NoError(t, err)
		assert.False(t, outcome.Unsubscribed)
		assert.ErrorIs(t, outcome.Reason, carderrors.ErrNotCancellable)
	}

	card, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, card.Active)
}

func TestUnsubscribe_Rejections(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	id, err := uc.Subscribe(ctx, 1001, "P1", entities.GradeAssessmentCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	tests := []struct {
		name        string
		userID      int64
		projectCode string
		id          uint
		want        error
	}{
		{name: "absent", userID: 1001, projectCode: "P1", id: id + 100, want: carderrors.ErrSubscriptionNotFound},
		{name: "other user", userID: 1002, projectCode: "P1", id: id, want: carderrors.ErrNotOwner},
		{name: "other project", userID: 1001, projectCode: "P2", id: id, want: carderrors.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := uc.Unsubscribe(ctx, tt.userID, tt.projectCode, tt.id)
			require.NoError(t, err)
			assert.False(t, outcome.Unsubscribed)
			assert.ErrorIs(t, outcome.Reason, tt.want)
		})
	}

	card, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, card.Active)

	outcome, err := uc.Unsubscribe(ctx, 1001, "P1", id)
	require.NoError(t, err)
	require.True(t, outcome.Unsubscribed)

	outcome, err = uc.Unsubscribe(ctx, 1001, "P1", id)
	require.NoError(t, err)
	assert.False(t, outcome.Unsubscribed)
	assert.ErrorIs(t, outcome.Reason, carderrors.ErrAlreadyInactive)
}

func TestSubscribe_Validation(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Subscribe(ctx, 0, "P1", "x", entities.BusinessTypeCard)
	assert.ErrorIs(t, err, carderrors.ErrInvalidUserID)

	_, err = uc.Subscribe(ctx, entities.SystemUserID, entities.DefaultProjectCode, "x", entities.BusinessTypeCard)
	assert.ErrorIs(t, err, carderrors.ErrInvalidUserID)

	_, err = uc.Subscribe(ctx, 1, " ", "x", entities.BusinessTypeCard)
	assert.ErrorIs(t, err, carderrors.ErrInvalidProjectCode)

	_, err = uc.Subscribe(ctx, 1, "P1", "", entities.BusinessTypeCard)
	assert.ErrorIs(t, err, carderrors.ErrInvalidContent)

	_, err = uc.Subscribe(ctx, 1, "P1", "x", entities.BusinessType(7))
	assert.ErrorIs(t, err, carderrors.ErrInvalidBusinessType)
}

func TestSubscribe_ConcurrentCallsShareOneRow(t *testing.T) {
	uc, db := newTestUseCase(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = uc.Subscribe(ctx, 2001, "PROJ002", entities.StudyReportCard, entities.BusinessTypeCard)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), countRows(t, db, "user_id = ?", 2001))
}

func TestReconcileTemplates_IdempotentAndCorrecting(t *testing.T) {
	uc, db := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))
	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))
	assert.Equal(t, int64(2), countRows(t, db, "user_id = ?", entities.SystemUserID))

	// drift: template disabled and flag flipped
	require.NoError(t, db.Model(&entities.CardSubscription{}).
		Where("content = ?", entities.DailyFocusCard).
		Updates(map[string]any{"active": false, "cancellable": true}).Error)

	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))

	var focus entities.CardSubscription
	require.NoError(t, db.Where("content = ? AND user_id = ?", entities.DailyFocusCard, entities.SystemUserID).Take(&focus).Error)
	assert.True(t, focus.Active)
	assert.False(t, focus.Cancellable)
	assert.Equal(t, int64(2), countRows(t, db, "user_id = ?", entities.SystemUserID))
}

func TestListAll_IncludesTemplatesAndInactiveRows(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	require.NoError(t, uc.ReconcileTemplates(ctx, entities.DefaultTemplates()))

	active, err := uc.Subscribe(ctx, 1001, "P1", entities.StudyReportCard, entities.BusinessTypeCard)
	require.NoError(t, err)
	inactive, err := uc.Subscribe(ctx, 1001, "P1", entities.PlanProgressCard, entities.BusinessTypeCard)
	require.NoError(t, err)
	_, err = uc.Unsubscribe(ctx, 1001, "P1", inactive)
	require.NoError(t, err)
	_, err = uc.Subscribe(ctx, 1002, "P1", entities.StudyReportCard, entities.BusinessTypeCard)
	require.NoError(t, err)

	all, err := uc.ListAll(ctx, 1001, "P1")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	templates := 0
	for _, c := range all {
		if c.IsTemplate() {
			templates++
			continue
		}
		assert.Equal(t, int64(1001), c.UserID)
	}
	assert.Equal(t, 2, templates)

	listed, err := uc.ListActive(ctx, 1001, "P1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active, listed[0].ID)
}

func TestGetByID_Absent(t *testing.T) {
	uc, _ := newTestUseCase(t)

	card, err := uc.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestSubscribe_StorageFailure(t *testing.T) {
	uc, db := newTestUseCase(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = uc.Subscribe(context.Background(), 1001, "P1", entities.StudyReportCard, entities.BusinessTypeCard)
	assert.Error(t, err)

	require.Error(t, uc.ReconcileTemplates(context.Background(), entities.DefaultTemplates()))
}
