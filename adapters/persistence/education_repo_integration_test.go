package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/portfolio-api/internal/domain/education"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type EducationRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool       *pgxpool.Pool
	pgContainer  *postgres.PostgresContainer
	repo         education.Repository
	ownerID      int64
	otherOwnerID int64
}

func (s *EducationRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.repo = NewPostgresEducationRepo(s.dbPool)

	query := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`
	if err := s.dbPool.QueryRow(ctx, query, "alice", "alice@example.com", "hashedpassword").Scan(&s.ownerID); err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
	if err := s.dbPool.QueryRow(ctx, query, "bob", "bob@example.com", "hashedpassword").Scan(&s.otherOwnerID); err != nil {
		s.T().Fatalf("Failed to seed second owner: %s", err)
	}
}

func (s *EducationRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestEducationRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(EducationRepoIntegrationTestSuite))
}

func (s *EducationRepoIntegrationTestSuite) newEducation(school string) *education.Education {
	now := time.Now().UTC()
	return &education.Education{
		UserID:    s.ownerID,
		School:    school,
		Degree:    "BSc",
		StartDate: now.AddDate(-4, 0, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *EducationRepoIntegrationTestSuite) Test_Save_And_FindByID() {
	ctx := context.Background()

	edu := s.newEducation("Test University")
	err := s.repo.Save(ctx, edu)
	s.Require().NoError(err)
	s.Require().NotZero(edu.ID)

	found, err := s.repo.FindByID(ctx, edu.ID, s.ownerID)
	s.Require().NoError(err)
	s.Equal("Test University", found.School)
	s.Equal("BSc", found.Degree)
	s.Equal(s.ownerID, found.UserID)
}

func (s *EducationRepoIntegrationTestSuite) Test_FindByID_OtherOwnerIsNotFound() {
	ctx := context.Background()

	edu := s.newEducation("Hidden University")
	s.Require().NoError(s.repo.Save(ctx, edu))

	_, err := s.repo.FindByID(ctx, edu.ID, s.otherOwnerID)
	s.Require().ErrorIs(err, apperror.ErrNotFound)
}

func (s *EducationRepoIntegrationTestSuite) Test_Update_And_Delete() {
	ctx := context.Background()

	edu := s.newEducation("Old School")
	s.Require().NoError(s.repo.Save(ctx, edu))

	edu.School = "New School"
	s.Require().NoError(s.repo.Update(ctx, edu))

	found, err := s.repo.FindByID(ctx, edu.ID, s.ownerID)
	s.Require().NoError(err)
	s.Equal("New School", found.School)

	s.Require().NoError(s.repo.Delete(ctx, edu.ID, s.ownerID))
	_, err = s.repo.FindByID(ctx, edu.ID, s.ownerID)
	s.Require().ErrorIs(err, apperror.ErrNotFound)
}

func (s *EducationRepoIntegrationTestSuite) Test_Delete_OtherOwnerIsNotFound() {
	ctx := context.Background()

	edu := s.newEducation("Protected School")
	s.Require().NoError(s.repo.Save(ctx, edu))

	err := s.repo.Delete(ctx, edu.ID, s.otherOwnerID)
	s.Require().ErrorIs(err, apperror.ErrNotFound)

	// Still reachable by its real owner.
	_, err = s.repo.FindByID(ctx, edu.ID, s.ownerID)
	s.Require().NoError(err)
}

func (s *EducationRepoIntegrationTestSuite) Test_ListByOwner_SortWhitelist() {
	ctx := context.Background()

	first := s.newEducation("Alpha College")
	first.StartDate = time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Save(ctx, first))

	second := s.newEducation("Beta College")
	second.StartDate = time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Save(ctx, second))

	list, err := s.repo.ListByOwner(ctx, s.ownerID, 50, 0, "start_date", "asc")
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(list), 2)
	for i := 1; i < len(list); i++ {
		s.False(list[i].StartDate.Before(list[i-1].StartDate))
	}

	// An unknown sort column falls back to created_at instead of erroring.
	_, err = s.repo.ListByOwner(ctx, s.ownerID, 50, 0, "school; DROP TABLE users", "asc")
	s.Require().NoError(err)
}
