package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flashquiz/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository, FamilyRepository and DashboardUserRepository
type mockUserRepository struct {
	user      *models.User
	byEmail   *models.User
	getErr    error
	createErr error
	exists    bool
	existsErr error
	children  []models.User
	parents   []models.User
	listErr   error
	linkErr   error
	updateErr error
	roleErr   error

	created        *models.User
	linkedChildID  int
	linkedProfile  [2]string
	profileUpdates []*models.UpdateProfileRequest
	roleChanges    []models.Role
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 42
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.user == nil {
		return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	u := *m.user
	return &u, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.byEmail == nil {
		return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	u := *m.byEmail
	return &u, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockUserRepository) ListChildren(ctx context.Context, parentID int) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.children, nil
}

func (m *mockUserRepository) ListParents(ctx context.Context, excludeID int) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.parents, nil
}

func (m *mockUserRepository) LinkToParent(ctx context.Context, childID, parentID int, gradeLevel, dateOfBirth string) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	m.linkedChildID = childID
	m.linkedProfile = [2]string{gradeLevel, dateOfBirth}
	return nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.profileUpdates = append(m.profileUpdates, req)
	return nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, userID int, role models.Role) error {
	if m.roleErr != nil {
		return m.roleErr
	}
	m.roleChanges = append(m.roleChanges, role)
	return nil
}

// mockUserTokenRepository is a mock implementation of UserTokenRepository
type mockUserTokenRepository struct {
	token        *models.UserToken
	err          error
	updateErr    error
	deleteErr    error
	deletedCount int

	saved         []string
	deleted       []string
	expiredCutoff time.Time
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, userToken.Token)
	return nil
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.token == nil {
		return nil, fmt.Errorf("user token not found: %w", models.ErrNotFound)
	}
	return m.token, nil
}

func (m *mockUserTokenRepository) UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error {
	return m.updateErr
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, token)
	return nil
}

func (m *mockUserTokenRepository) DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.expiredCutoff = expiryTime
	return m.deletedCount, nil
}

// mockQuizRepository is a mock implementation of QuizRepository and QuizLister
type mockQuizRepository struct {
	summaries []models.QuizSummary
	createErr error
	listErr   error
	deleteErr error

	created   *models.Quiz
	deletedID int
	listCalls atomic.Int32
}

func (m *mockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if m.createErr != nil {
		return m.createErr
	}
	quiz.ID = 7
	quiz.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.created = quiz
	return nil
}

func (m *mockQuizRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.QuizSummary, error) {
	m.listCalls.Add(1)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.summaries, nil
}

func (m *mockQuizRepository) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

// mockQuizReader is a mock implementation of QuizReader
type mockQuizReader struct {
	quiz *models.Quiz
	err  error
}

func (m *mockQuizReader) GetByID(ctx context.Context, id int) (*models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.quiz == nil {
		return nil, fmt.Errorf("quiz not found: %w", models.ErrNotFound)
	}
	return m.quiz, nil
}

// mockInvalidator is a mock implementation of QuizCacheInvalidator
type mockInvalidator struct {
	err error
	ids []int
}

func (m *mockInvalidator) Invalidate(ctx context.Context, id int) error {
	m.ids = append(m.ids, id)
	return m.err
}

// mockAttemptRepository is a mock implementation of AttemptRepository and AttemptHistoryRepository
type mockAttemptRepository struct {
	byUser    map[int][]models.QuizAttempt
	listErr   error
	createErr error

	mu      sync.Mutex
	created []*models.QuizAttempt
}

func (m *mockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = len(m.created) + 1
	m.created = append(m.created, attempt)
	return nil
}

func (m *mockAttemptRepository) ListByUser(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byUser[userID], nil
}

// mockUserAchievementRepository is a mock implementation of UserAchievementRepository
type mockUserAchievementRepository struct {
	records    []models.UnlockedAchievement
	listErr    error
	unlockErrs map[string]error
	present    map[string]bool

	unlocked []string
}

func (m *mockUserAchievementRepository) ListByUser(ctx context.Context, userID int) ([]models.UnlockedAchievement, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockUserAchievementRepository) Unlock(ctx context.Context, userID int, achievementID string, unlockedAt time.Time) (bool, error) {
	if err := m.unlockErrs[achievementID]; err != nil {
		return false, err
	}
	m.unlocked = append(m.unlocked, achievementID)
	return !m.present[achievementID], nil
}

// mockEvaluator is a mock implementation of AchievementEvaluator
type mockEvaluator struct {
	result  []models.AchievementDefinition
	userIDs []int
}

func (m *mockEvaluator) Evaluate(ctx context.Context, userID int) []models.AchievementDefinition {
	m.userIDs = append(m.userIDs, userID)
	return m.result
}

// mockQuizViewer is a mock implementation of QuizViewer
type mockQuizViewer struct {
	quiz *models.Quiz
	err  error
}

func (m *mockQuizViewer) Get(ctx context.Context, viewer Viewer, id int) (*models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quiz, nil
}

// mockAchievementLister is a mock implementation of AchievementLister
type mockAchievementLister struct {
	earned []models.EarnedAchievement
	err    error
}

func (m *mockAchievementLister) List(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.earned, nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
