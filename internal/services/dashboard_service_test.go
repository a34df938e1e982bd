package services

import (
	"context"
	"errors"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService_ParentDashboard(t *testing.T) {
	users := &mockUserRepository{children: []models.User{
		{ID: 2, Name: "Ann", Role: models.RoleChild, ParentID: intPtr(1)},
		{ID: 3, Name: "Ben", Role: models.RoleChild, ParentID: intPtr(1)},
	}}
	quizzes := &mockQuizRepository{summaries: []models.QuizSummary{{ID: 5, Title: "Cells"}}}
	attempts := &mockAttemptRepository{byUser: map[int][]models.QuizAttempt{
		2: {{ID: 10, UserID: 2}},
		3: {{ID: 12, UserID: 3}, {ID: 11, UserID: 3}},
	}}
	svc := NewDashboardService(users, quizzes, attempts, &mockAchievementLister{}, zap.NewNop())

	dashboard, err := svc.ParentDashboard(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, dashboard.Children, 2)
	assert.Equal(t, "Ann", dashboard.Children[0].Name)
	assert.Len(t, dashboard.Children[0].Attempts, 1)
	assert.Equal(t, "Ben", dashboard.Children[1].Name)
	assert.Len(t, dashboard.Children[1].Attempts, 2)
	assert.Equal(t, []models.QuizSummary{{ID: 5, Title: "Cells"}}, dashboard.Quizzes)
}

func TestDashboardService_ParentDashboard_Errors(t *testing.T) {
	tests := []struct {
		name          string
		users         *mockUserRepository
		quizzes       *mockQuizRepository
		attempts      *mockAttemptRepository
		errorContains string
	}{
		{
			name:          "children",
			users:         &mockUserRepository{listErr: errors.New("db down")},
			quizzes:       &mockQuizRepository{},
			attempts:      &mockAttemptRepository{},
			errorContains: "failed to list children",
		},
		{
			name:          "quizzes",
			users:         &mockUserRepository{},
			quizzes:       &mockQuizRepository{listErr: errors.New("db down")},
			attempts:      &mockAttemptRepository{},
			errorContains: "failed to list quizzes",
		},
		{
			name:          "attempts",
			users:         &mockUserRepository{children: []models.User{{ID: 2}}},
			quizzes:       &mockQuizRepository{},
			attempts:      &mockAttemptRepository{listErr: errors.New("db down")},
			errorContains: "failed to list attempts of child 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDashboardService(tt.users, tt.quizzes, tt.attempts, &mockAchievementLister{}, zap.NewNop())

			dashboard, err := svc.ParentDashboard(context.Background(), 1)

			assert.Nil(t, dashboard)
			assert.ErrorContains(t, err, tt.errorContains)
		})
	}
}

func TestDashboardService_ChildDashboard(t *testing.T) {
	earned := []models.EarnedAchievement{{AchievementDefinition: models.AchievementDefinition{ID: "first-quiz"}}}

	t.Run("linked child", func(t *testing.T) {
		users := &mockUserRepository{user: &models.User{ID: 2, Role: models.RoleChild, ParentID: intPtr(1)}}
		quizzes := &mockQuizRepository{summaries: []models.QuizSummary{{ID: 5}}}
		attempts := &mockAttemptRepository{byUser: map[int][]models.QuizAttempt{2: {{ID: 9}}}}
		svc := NewDashboardService(users, quizzes, attempts, &mockAchievementLister{earned: earned}, zap.NewNop())

		dashboard, err := svc.ChildDashboard(context.Background(), 2)

		require.NoError(t, err)
		assert.Len(t, dashboard.Quizzes, 1)
		assert.Len(t, dashboard.Attempts, 1)
		assert.Equal(t, earned, dashboard.Achievements)
	})

	t.Run("unlinked child sees no quizzes", func(t *testing.T) {
		users := &mockUserRepository{user: &models.User{ID: 2, Role: models.RoleChild}}
		quizzes := &mockQuizRepository{summaries: []models.QuizSummary{{ID: 5}}}
		svc := NewDashboardService(users, quizzes, &mockAttemptRepository{}, &mockAchievementLister{}, zap.NewNop())

		dashboard, err := svc.ChildDashboard(context.Background(), 2)

		require.NoError(t, err)
		assert.NotNil(t, dashboard.Quizzes)
		assert.Empty(t, dashboard.Quizzes)
		assert.NotNil(t, dashboard.Attempts)
		assert.NotNil(t, dashboard.Achievements)
		assert.Equal(t, int32(0), quizzes.listCalls.Load())
	})

	t.Run("achievements error", func(t *testing.T) {
		users := &mockUserRepository{user: &models.User{ID: 2, Role: models.RoleChild}}
		svc := NewDashboardService(users, &mockQuizRepository{}, &mockAttemptRepository{}, &mockAchievementLister{err: errors.New("db down")}, zap.NewNop())

		_, err := svc.ChildDashboard(context.Background(), 2)

		assert.ErrorContains(t, err, "failed to list achievements")
	})

	t.Run("unknown child", func(t *testing.T) {
		svc := NewDashboardService(&mockUserRepository{}, &mockQuizRepository{}, &mockAttemptRepository{}, &mockAchievementLister{}, zap.NewNop())

		_, err := svc.ChildDashboard(context.Background(), 2)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
