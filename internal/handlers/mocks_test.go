package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/flashquiz/backend/internal/middleware"
	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/services"
)

// passthrough stands in for the auth and role middlewares; tests put the user in the context directly
func passthrough(next http.Handler) http.Handler { return next }

// newRequest builds a request carrying the given user. A userID of 0 leaves the context empty.
func newRequest(method, target, body string, userID int, role models.Role) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, int(role)))
	}
	return req
}

type mockAuthService struct {
	access, refresh string
	err             error
	user            *models.User
	registered      *models.RegisterRequest
	refreshedWith   string
	loggedOut       []string
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	m.registered = req
	if m.err != nil {
		return "", "", m.err
	}
	return m.access, m.refresh, nil
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return m.access, m.refresh, nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	m.refreshedWith = refreshToken
	if m.err != nil {
		return "", "", m.err
	}
	return m.access, m.refresh, nil
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	m.loggedOut = append(m.loggedOut, refreshToken)
	return m.err
}

func (m *mockAuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

type mockUserService struct {
	user     *models.User
	managed  *models.ManagedUsers
	err      error
	actor    services.Viewer
	targetID int
	role     models.Role
}

func (m *mockUserService) AddChild(ctx context.Context, parentID int, req *models.AddChildRequest) (*models.User, error) {
	m.actor = services.Viewer{UserID: parentID}
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) AddParent(ctx context.Context, actorID int, req *models.AddParentRequest) (*models.User, error) {
	m.actor = services.Viewer{UserID: actorID}
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) ManagedUsers(ctx context.Context, parentID int) (*models.ManagedUsers, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.managed, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actor services.Viewer, targetID int, req *models.UpdateProfileRequest) (*models.User, error) {
	m.actor, m.targetID = actor, targetID
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) SetRole(ctx context.Context, actorID, targetID int, role models.Role) error {
	m.actor, m.targetID, m.role = services.Viewer{UserID: actorID}, targetID, role
	return m.err
}

type mockQuizService struct {
	quiz      *models.Quiz
	summaries []models.QuizSummary
	play      *models.QuizPlay
	err       error
	viewer    services.Viewer
	id        int
	direction string
	deleted   int
}

func (m *mockQuizService) Create(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quiz, nil
}

func (m *mockQuizService) List(ctx context.Context, ownerID int) ([]models.QuizSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summaries, nil
}

func (m *mockQuizService) Get(ctx context.Context, viewer services.Viewer, id int) (*models.Quiz, error) {
	m.viewer, m.id = viewer, id
	if m.err != nil {
		return nil, m.err
	}
	return m.quiz, nil
}

func (m *mockQuizService) Play(ctx context.Context, viewer services.Viewer, id int, direction string) (*models.QuizPlay, error) {
	m.viewer, m.id, m.direction = viewer, id, direction
	if m.err != nil {
		return nil, m.err
	}
	return m.play, nil
}

func (m *mockQuizService) Delete(ctx context.Context, viewer services.Viewer, id int) error {
	m.viewer, m.deleted = viewer, id
	return m.err
}

type mockAttemptService struct {
	result   *models.AttemptResult
	attempts []models.QuizAttempt
	err      error
	viewer   services.Viewer
	quizID   int
	answers  int
}

func (m *mockAttemptService) Submit(ctx context.Context, viewer services.Viewer, quizID int, req *models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	m.viewer, m.quizID, m.answers = viewer, quizID, len(req.AnsweredFlashcards)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAttemptService) List(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.attempts, nil
}

type mockDashboardService struct {
	parent      *models.ParentDashboard
	child       *models.ChildDashboard
	err         error
	parentCalls int
	childCalls  int
}

func (m *mockDashboardService) ParentDashboard(ctx context.Context, parentID int) (*models.ParentDashboard, error) {
	m.parentCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.parent, nil
}

func (m *mockDashboardService) ChildDashboard(ctx context.Context, childID int) (*models.ChildDashboard, error) {
	m.childCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.child, nil
}

type mockAchievementService struct {
	catalog []models.AchievementDefinition
	earned  []models.EarnedAchievement
	err     error
}

func (m *mockAchievementService) Catalog() []models.AchievementDefinition { return m.catalog }

func (m *mockAchievementService) List(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.earned, nil
}

type mockAIService struct {
	cards *models.GeneratedFlashcards
	hint  *models.HintResponse
	err   error
}

func (m *mockAIService) GenerateFromTopic(ctx context.Context, req *models.GenerateFromTopicRequest) (*models.GeneratedFlashcards, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

func (m *mockAIService) GenerateFromText(ctx context.Context, req *models.GenerateFromTextRequest) (*models.GeneratedFlashcards, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

func (m *mockAIService) Hint(ctx context.Context, req *models.HintRequest) (*models.HintResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hint, nil
}

type mockTokenCleaner struct {
	deleted int
	err     error
}

func (m *mockTokenCleaner) CleanExpiredTokens(ctx context.Context) (int, error) {
	return m.deleted, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }
