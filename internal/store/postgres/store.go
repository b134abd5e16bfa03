package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadichii/kadichii/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	users       *UserRepo
	projects    *ProjectRepo
	columns     *ColumnRepo
	tasks       *TaskRepo
	members     *MemberRepo
	invitations *InvitationRepo
	chat        *ChatRepo
	strokes     *StrokeRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		users:       NewUserRepo(pool),
		projects:    NewProjectRepo(pool),
		columns:     NewColumnRepo(pool),
		tasks:       NewTaskRepo(pool),
		members:     NewMemberRepo(pool),
		invitations: NewInvitationRepo(pool),
		chat:        NewChatRepo(pool),
		strokes:     NewStrokeRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository             { return s.users }
func (s *Store) Projects() domain.ProjectRepository       { return s.projects }
func (s *Store) Columns() domain.ColumnRepository         { return s.columns }
func (s *Store) Tasks() domain.TaskRepository             { return s.tasks }
func (s *Store) Members() domain.MemberRepository         { return s.members }
func (s *Store) Invitations() domain.InvitationRepository { return s.invitations }
func (s *Store) Chat() domain.ChatRepository              { return s.chat }
func (s *Store) Strokes() domain.StrokeRepository         { return s.strokes }
