package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/core/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
)

// --- Test Suite ---
type GroupServiceTestSuite struct {
	suite.Suite
	mockGroupRepo *MockGroupRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.GroupSvcFacade
}

func (suite *GroupServiceTestSuite) SetupTest() {
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewGroupService(suite.mockGroupRepo, suite.mockUserRepo)
}

// --- CreateGroup Tests ---

func (suite *GroupServiceTestSuite) TestCreateGroup_CreatorIsAlwaysFirstMember() {
	ctx := context.Background()
	req := dto.CreateGroupRequest{
		Name:    "Flatmates",
		Icon:    "🏠",
		Members: []string{"alice", "creator", "bob", "alice", ""},
	}

	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"creator", "alice", "bob"}).Return(map[string]domain.User{
		"creator": {UserID: "creator"},
		"alice":   {UserID: "alice"},
		"bob":     {UserID: "bob"},
	}, nil).Once()
	suite.mockGroupRepo.On("SaveGroup", ctx, mock.MatchedBy(func(g domain.Group) bool {
		return len(g.Members) == 3 && g.Members[0] == "creator" && g.CreatedBy == "creator"
	})).Return(nil).Once()

	group, err := suite.service.CreateGroup(ctx, req, "creator")

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.NotEmpty(group.GroupID)
	suite.Equal("Flatmates", group.Name)
	suite.Equal([]string{"creator", "alice", "bob"}, group.Members)
	suite.mockGroupRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestCreateGroup_UnknownMemberRejected() {
	ctx := context.Background()
	req := dto.CreateGroupRequest{Name: "Trip", Members: []string{"ghost"}}

	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"creator", "ghost"}).Return(map[string]domain.User{
		"creator": {UserID: "creator"},
	}, nil).Once()

	group, err := suite.service.CreateGroup(ctx, req, "creator")

	suite.Require().Error(err)
	suite.Nil(group)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "SaveGroup")
}

func (suite *GroupServiceTestSuite) TestCreateGroup_NameRequired() {
	ctx := context.Background()

	group, err := suite.service.CreateGroup(ctx, dto.CreateGroupRequest{}, "creator")

	suite.Require().Error(err)
	suite.Nil(group)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "SaveGroup")
}

// --- AddMember Tests ---

func (suite *GroupServiceTestSuite) TestAddMember_Success() {
	ctx := context.Background()
	group := &domain.Group{GroupID: "group-1", Name: "Trip", Members: []string{"creator", "alice"}}

	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-1").Return(group, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"bob"}).Return(map[string]domain.User{
		"bob": {UserID: "bob"},
	}, nil).Once()
	suite.mockGroupRepo.On("AddGroupMember", ctx, "group-1", "bob").Return(nil).Once()

	err := suite.service.AddMember(ctx, "group-1", "bob", "alice")

	suite.Require().NoError(err)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestAddMember_RequesterMustBeMember() {
	ctx := context.Background()
	group := &domain.Group{GroupID: "group-1", Name: "Trip", Members: []string{"creator"}}

	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-1").Return(group, nil).Once()

	err := suite.service.AddMember(ctx, "group-1", "bob", "stranger")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "AddGroupMember")
}

func (suite *GroupServiceTestSuite) TestAddMember_AlreadyMember() {
	ctx := context.Background()
	group := &domain.Group{GroupID: "group-1", Name: "Trip", Members: []string{"creator", "alice"}}

	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-1").Return(group, nil).Once()

	err := suite.service.AddMember(ctx, "group-1", "alice", "creator")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "AddGroupMember")
}

func (suite *GroupServiceTestSuite) TestAddMember_GroupNotFound() {
	ctx := context.Background()

	suite.mockGroupRepo.On("FindGroupByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AddMember(ctx, "missing", "bob", "creator")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

// --- ListGroupsForUser Tests ---

func (suite *GroupServiceTestSuite) TestListGroupsForUser_Success() {
	ctx := context.Background()
	expected := []domain.Group{
		{GroupID: "group-1", Name: "Trip", Members: []string{"user-1", "alice"}},
		{GroupID: "group-2", Name: "Flat", Members: []string{"user-1", "bob"}},
	}

	suite.mockGroupRepo.On("FindGroupsByMember", ctx, "user-1").Return(expected, nil).Once()

	groups, err := suite.service.ListGroupsForUser(ctx, "user-1")

	suite.Require().NoError(err)
	suite.Equal(expected, groups)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}
