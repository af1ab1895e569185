package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"

	"teampulse/internal/directory/models"
)

type DirectorySuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *DirectorySuite) TestResolve() {
	managerID := id.NewManagerID()
	subjects := []id.SubjectID{id.NewSubjectID(), id.NewSubjectID()}
	for _, subjectID := range subjects {
		s.Require().NoError(s.store.AddEmployee(s.ctx, models.Employee{
			SubjectID: subjectID,
			ManagerID: managerID,
			TeamName:  "Platform",
		}))
	}

	s.Run("returns team name and members", func() {
		team, err := s.store.Resolve(s.ctx, managerID)
		s.Require().NoError(err)
		s.Equal("Platform", team.Name)
		s.ElementsMatch(subjects, team.Members)
	})

	s.Run("unknown manager yields ErrNotFound", func() {
		_, err := s.store.Resolve(s.ctx, id.NewManagerID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("re-adding a member does not duplicate it", func() {
		s.Require().NoError(s.store.AddEmployee(s.ctx, models.Employee{
			SubjectID: subjects[0],
			ManagerID: managerID,
			TeamName:  "Platform",
		}))
		team, err := s.store.Resolve(s.ctx, managerID)
		s.Require().NoError(err)
		s.Len(team.Members, 2)
	})
}

func (s *DirectorySuite) TestListManagers() {
	s.Run("empty directory lists nothing", func() {
		managers, err := s.store.ListManagers(s.ctx)
		s.Require().NoError(err)
		s.Empty(managers)
	})

	s.Run("lists each manager once", func() {
		first := id.NewManagerID()
		second := id.NewManagerID()
		for _, managerID := range []id.ManagerID{first, first, second} {
			s.Require().NoError(s.store.AddEmployee(s.ctx, models.Employee{
				SubjectID: id.NewSubjectID(),
				ManagerID: managerID,
				TeamName:  "Team",
			}))
		}
		managers, err := s.store.ListManagers(s.ctx)
		s.Require().NoError(err)
		s.ElementsMatch([]id.ManagerID{first, second}, managers)
	})
}
