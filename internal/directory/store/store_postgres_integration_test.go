//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"
	"teampulse/pkg/testutil/containers"

	"teampulse/internal/directory/models"
	"teampulse/internal/directory/store"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "employees"))
}

func (s *PostgresStoreSuite) addEmployee(managerID id.ManagerID, team string) id.SubjectID {
	subjectID := id.NewSubjectID()
	s.Require().NoError(s.store.AddEmployee(context.Background(), models.Employee{
		SubjectID: subjectID,
		FullName:  "Test Employee",
		ManagerID: managerID,
		TeamName:  team,
	}))
	return subjectID
}

func (s *PostgresStoreSuite) TestResolve() {
	ctx := context.Background()
	managerID := id.NewManagerID()
	first := s.addEmployee(managerID, "Platform")
	second := s.addEmployee(managerID, "Platform")

	team, err := s.store.Resolve(ctx, managerID)
	s.Require().NoError(err)
	s.Equal("Platform", team.Name)
	s.ElementsMatch([]id.SubjectID{first, second}, team.Members)
}

func (s *PostgresStoreSuite) TestResolveUnknownManager() {
	_, err := s.store.Resolve(context.Background(), id.NewManagerID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestReassignment moves an employee between managers; the subject must
// appear under exactly one team afterwards.
func (s *PostgresStoreSuite) TestReassignment() {
	ctx := context.Background()
	oldManager := id.NewManagerID()
	newManager := id.NewManagerID()
	subjectID := s.addEmployee(oldManager, "Platform")
	s.addEmployee(newManager, "Support")

	s.Require().NoError(s.store.AddEmployee(ctx, models.Employee{
		SubjectID: subjectID,
		FullName:  "Test Employee",
		ManagerID: newManager,
		TeamName:  "Support",
	}))

	_, err := s.store.Resolve(ctx, oldManager)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "old team emptied out")

	team, err := s.store.Resolve(ctx, newManager)
	s.Require().NoError(err)
	s.Contains(team.Members, subjectID)
}

func (s *PostgresStoreSuite) TestListManagers() {
	ctx := context.Background()
	first := id.NewManagerID()
	second := id.NewManagerID()
	s.addEmployee(first, "Platform")
	s.addEmployee(first, "Platform")
	s.addEmployee(second, "Support")

	managers, err := s.store.ListManagers(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]id.ManagerID{first, second}, managers)
}
