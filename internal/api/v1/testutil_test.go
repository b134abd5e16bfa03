package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the authenticated user into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID, email string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserEmail, email)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users       domain.UserRepository
	projects    domain.ProjectRepository
	columns     domain.ColumnRepository
	tasks       domain.TaskRepository
	members     domain.MemberRepository
	invitations domain.InvitationRepository
	chat        domain.ChatRepository
	strokes     domain.StrokeRepository
}

func (m *mockDataStore) Users() domain.UserRepository             { return m.users }
func (m *mockDataStore) Projects() domain.ProjectRepository       { return m.projects }
func (m *mockDataStore) Columns() domain.ColumnRepository         { return m.columns }
func (m *mockDataStore) Tasks() domain.TaskRepository             { return m.tasks }
func (m *mockDataStore) Members() domain.MemberRepository         { return m.members }
func (m *mockDataStore) Invitations() domain.InvitationRepository { return m.invitations }
func (m *mockDataStore) Chat() domain.ChatRepository              { return m.chat }
func (m *mockDataStore) Strokes() domain.StrokeRepository         { return m.strokes }

// memberOf returns a store whose membership check succeeds for the given
// user, the common fixture for project-scoped handlers.
func memberOf(projectID uuid.UUID, userID uuid.UUID, email string, role domain.MemberRole) *mockMemberRepo {
	return &mockMemberRepo{
		getByEmailFunc: func(_ context.Context, pid uuid.UUID, e string) (*domain.Member, error) {
			if pid == projectID && e == email {
				return &domain.Member{UserID: userID, ProjectID: projectID, Email: email, Role: role}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc        func(ctx context.Context, u *domain.User) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	updateFunc        func(ctx context.Context, u *domain.User) error
	deleteFunc        func(ctx context.Context, id uuid.UUID) error
	listByIDsFunc     func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	addProjectFunc    func(ctx context.Context, userID, projectID uuid.UUID) error
	removeProjectFunc func(ctx context.Context, userID, projectID uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	return m.listByIDsFunc(ctx, ids)
}

func (m *mockUserRepo) AddProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.addProjectFunc(ctx, userID, projectID)
}

func (m *mockUserRepo) RemoveProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.removeProjectFunc(ctx, userID, projectID)
}

// ---------------------------------------------------------------------------
// Mock ProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepo struct {
	createWithDefaultsFunc func(ctx context.Context, p *domain.Project, ownerEmail string) error
	getByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	listByIDsFunc          func(ctx context.Context, ids []uuid.UUID) ([]*domain.Project, error)
	updateFunc             func(ctx context.Context, p *domain.Project) error
	deleteCascadeFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectRepo) CreateWithDefaults(ctx context.Context, p *domain.Project, ownerEmail string) error {
	return m.createWithDefaultsFunc(ctx, p, ownerEmail)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProjectRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Project, error) {
	return m.listByIDsFunc(ctx, ids)
}

func (m *mockProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return m.updateFunc(ctx, p)
}

func (m *mockProjectRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return m.deleteCascadeFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ColumnRepository
// ---------------------------------------------------------------------------

type mockColumnRepo struct {
	createFunc        func(ctx context.Context, c *domain.Column) error
	getByIDFunc       func(ctx context.Context, projectID, id uuid.UUID) (*domain.Column, error)
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Column, error)
	renameFunc        func(ctx context.Context, projectID, id uuid.UUID, title string) error
	reorderFunc       func(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error
	nextOrderFunc     func(ctx context.Context, projectID uuid.UUID) (int, error)
	deleteFunc        func(ctx context.Context, projectID, id uuid.UUID) error
}

func (m *mockColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	return m.createFunc(ctx, c)
}

func (m *mockColumnRepo) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Column, error) {
	return m.getByIDFunc(ctx, projectID, id)
}

func (m *mockColumnRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Column, error) {
	return m.listByProjectFunc(ctx, projectID)
}

func (m *mockColumnRepo) Rename(ctx context.Context, projectID, id uuid.UUID, title string) error {
	return m.renameFunc(ctx, projectID, id, title)
}

func (m *mockColumnRepo) Reorder(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error {
	return m.reorderFunc(ctx, projectID, ranks)
}

func (m *mockColumnRepo) NextOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	return m.nextOrderFunc(ctx, projectID)
}

func (m *mockColumnRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return m.deleteFunc(ctx, projectID, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc          func(ctx context.Context, t *domain.Task) error
	getByIDFunc         func(ctx context.Context, projectID, id uuid.UUID) (*domain.Task, error)
	listByProjectFunc   func(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	updateFunc          func(ctx context.Context, t *domain.Task) error
	updateColumnFunc    func(ctx context.Context, projectID, id, columnID uuid.UUID) error
	updateChecklistFunc func(ctx context.Context, projectID, id uuid.UUID, items []domain.ChecklistItem) error
	deleteFunc          func(ctx context.Context, projectID, id uuid.UUID) error
	countByColumnFunc   func(ctx context.Context, projectID, columnID uuid.UUID) (int, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, projectID, id)
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return m.listByProjectFunc(ctx, projectID)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) UpdateColumn(ctx context.Context, projectID, id, columnID uuid.UUID) error {
	return m.updateColumnFunc(ctx, projectID, id, columnID)
}

func (m *mockTaskRepo) UpdateChecklist(ctx context.Context, projectID, id uuid.UUID, items []domain.ChecklistItem) error {
	return m.updateChecklistFunc(ctx, projectID, id, items)
}

func (m *mockTaskRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return m.deleteFunc(ctx, projectID, id)
}

func (m *mockTaskRepo) CountByColumn(ctx context.Context, projectID, columnID uuid.UUID) (int, error) {
	return m.countByColumnFunc(ctx, projectID, columnID)
}

// ---------------------------------------------------------------------------
// Mock MemberRepository
// ---------------------------------------------------------------------------

type mockMemberRepo struct {
	addFunc           func(ctx context.Context, m *domain.Member) error
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error)
	getByEmailFunc    func(ctx context.Context, projectID uuid.UUID, email string) (*domain.Member, error)
	removeFunc        func(ctx context.Context, projectID, userID uuid.UUID) error
}

func (m *mockMemberRepo) Add(ctx context.Context, member *domain.Member) error {
	return m.addFunc(ctx, member)
}

func (m *mockMemberRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error) {
	return m.listByProjectFunc(ctx, projectID)
}

func (m *mockMemberRepo) GetByEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.Member, error) {
	return m.getByEmailFunc(ctx, projectID, email)
}

func (m *mockMemberRepo) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	return m.removeFunc(ctx, projectID, userID)
}

// ---------------------------------------------------------------------------
// Mock InvitationRepository
// ---------------------------------------------------------------------------

type mockInvitationRepo struct {
	createFunc             func(ctx context.Context, inv *domain.Invitation) error
	getByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	listPendingByEmailFunc func(ctx context.Context, email string) ([]*domain.Invitation, error)
	findPendingFunc        func(ctx context.Context, projectID uuid.UUID, email string) (*domain.Invitation, error)
	acceptFunc             func(ctx context.Context, id, userID uuid.UUID, email string) error
	deleteFunc             func(ctx context.Context, id uuid.UUID) error
}

func (m *mockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	return m.createFunc(ctx, inv)
}

func (m *mockInvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockInvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]*domain.Invitation, error) {
	return m.listPendingByEmailFunc(ctx, email)
}

func (m *mockInvitationRepo) FindPending(ctx context.Context, projectID uuid.UUID, email string) (*domain.Invitation, error) {
	return m.findPendingFunc(ctx, projectID, email)
}

func (m *mockInvitationRepo) Accept(ctx context.Context, id, userID uuid.UUID, email string) error {
	return m.acceptFunc(ctx, id, userID, email)
}

func (m *mockInvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ChatRepository
// ---------------------------------------------------------------------------

type mockChatRepo struct {
	appendFunc        func(ctx context.Context, msg *domain.ChatMessage) error
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.ChatMessage, error)
}

func (m *mockChatRepo) Append(ctx context.Context, msg *domain.ChatMessage) error {
	return m.appendFunc(ctx, msg)
}

func (m *mockChatRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ChatMessage, error) {
	return m.listByProjectFunc(ctx, projectID)
}

// ---------------------------------------------------------------------------
// Mock StrokeRepository
// ---------------------------------------------------------------------------

type mockStrokeRepo struct {
	appendFunc        func(ctx context.Context, s *domain.Stroke) error
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Stroke, error)
	clearProjectFunc  func(ctx context.Context, projectID uuid.UUID) error
}

func (m *mockStrokeRepo) Append(ctx context.Context, s *domain.Stroke) error {
	return m.appendFunc(ctx, s)
}

func (m *mockStrokeRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Stroke, error) {
	return m.listByProjectFunc(ctx, projectID)
}

func (m *mockStrokeRepo) ClearProject(ctx context.Context, projectID uuid.UUID) error {
	return m.clearProjectFunc(ctx, projectID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc       func(ctx context.Context, email, password string) (*domain.User, error)
	loginFunc          func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc   func(ctx context.Context, refreshToken string) (string, error)
	changePasswordFunc func(ctx context.Context, userID uuid.UUID, current, next string) error
	deleteAccountFunc  func(ctx context.Context, userID uuid.UUID, password string) error
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return m.changePasswordFunc(ctx, userID, current, next)
}

func (m *mockAuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	return m.deleteAccountFunc(ctx, userID, password)
}

// ---------------------------------------------------------------------------
// Mock EventPublisher
// ---------------------------------------------------------------------------

type mockPublisher struct {
	channels []string
	payloads [][]byte
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	m.channels = append(m.channels, channel)
	m.payloads = append(m.payloads, payload)
	return m.err
}
