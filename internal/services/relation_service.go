package services

import (
	"context"
	"errors"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
)

// RelationService manages follow and block edges
type RelationService struct {
	follows  repositories.FollowRepository
	blocks   repositories.BlockRepository
	gate     gate
	notifier *Notifier
}

func NewRelationService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	blocks repositories.BlockRepository,
	vis repositories.VisibilityRepository,
	notifier *Notifier,
) *RelationService {
	return &RelationService{
		follows:  follows,
		blocks:   blocks,
		gate:     gate{users: users, visibility: vis},
		notifier: notifier,
	}
}

// Follow creates an edge from the viewer to username. Public targets are
// accepted immediately, private ones stay pending.
func (s *RelationService) Follow(ctx context.Context, viewerID uint, username string) (*models.FollowRelation, error) {
	target, err := s.gate.users.GetUserByUsername(username)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, invalid(msgUnknownUser)
		}
		return nil, err
	}
	if !target.IsActive {
		return nil, invalid(msgUnknownUser)
	}
	if target.ID == viewerID {
		return nil, invalid("You cannot follow yourself.")
	}

	exists, err := s.follows.HasAnyFollow(viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("You are already following this user.")
	}

	blocked, err := s.blocks.IsBlockedEitherWay(viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, invalid("You cannot follow this user.")
	}

	follow := &models.FollowRelation{
		FromUserID: viewerID,
		ToUserID:   target.ID,
		IsAccepted: !target.IsPrivate,
	}
	if err := s.follows.CreateFollow(follow); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, invalid("You are already following this user.")
		}
		return nil, err
	}

	s.notifier.FollowCreated(ctx, follow)
	return follow, nil
}

// Unfollow removes the viewer's edge to username, withdrawing it if pending.
func (s *RelationService) Unfollow(viewerID uint, username string) error {
	target, err := s.gate.userByUsername(username)
	if err != nil {
		return err
	}
	return lookup(s.follows.DeleteFollow(viewerID, target.ID), "Follow relation not found")
}

// Accept turns the pending request from username into an accepted follow.
func (s *RelationService) Accept(ctx context.Context, viewerID uint, username string) (*models.FollowRelation, error) {
	requester, err := s.gate.userByUsername(username)
	if err != nil {
		return nil, err
	}
	follow, err := s.follows.AcceptFollow(requester.ID, viewerID)
	if err != nil {
		return nil, lookup(err, "Follow request not found")
	}
	s.notifier.FollowAccepted(ctx, follow)
	return follow, nil
}

// Decline drops the pending request from username without notifying anyone.
func (s *RelationService) Decline(viewerID uint, username string) error {
	requester, err := s.gate.userByUsername(username)
	if err != nil {
		return err
	}
	return lookup(s.follows.DeletePendingFollow(requester.ID, viewerID), "Follow request not found")
}

// Block stores a block and removes follow edges between the pair.
func (s *RelationService) Block(viewerID uint, username string) (*models.BlockRelation, error) {
	target, err := s.gate.users.GetUserByUsername(username)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, invalid(msgUnknownUser)
		}
		return nil, err
	}
	if target.ID == viewerID {
		return nil, invalid("You cannot block yourself.")
	}

	exists, err := s.blocks.IsBlocked(viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("You have already blocked this user.")
	}

	block := &models.BlockRelation{BlockerID: viewerID, BlockedID: target.ID}
	if err := s.blocks.CreateBlock(block); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, invalid("You have already blocked this user.")
		}
		return nil, err
	}
	return block, nil
}

func (s *RelationService) Unblock(viewerID uint, username string) error {
	target, err := s.gate.userByUsername(username)
	if err != nil {
		return err
	}
	return lookup(s.blocks.DeleteBlock(viewerID, target.ID), "Block relation not found")
}

// Followers lists accepted followers of username visible to the viewer.
func (s *RelationService) Followers(viewerID uint, username, search string, page repositories.Page) ([]models.FollowEntry, int64, error) {
	user, err := s.viewable(viewerID, username)
	if err != nil {
		return nil, 0, err
	}
	return s.follows.GetFollowers(viewerID, user.ID, search, page)
}

// Followings lists accounts username follows, visible to the viewer.
func (s *RelationService) Followings(viewerID uint, username, search string, page repositories.Page) ([]models.FollowEntry, int64, error) {
	user, err := s.viewable(viewerID, username)
	if err != nil {
		return nil, 0, err
	}
	return s.follows.GetFollowings(viewerID, user.ID, search, page)
}

func (s *RelationService) SentRequests(viewerID uint, search string, page repositories.Page) ([]models.FollowEntry, int64, error) {
	return s.follows.GetSentRequests(viewerID, search, page)
}

func (s *RelationService) ReceivedRequests(viewerID uint, search string, page repositories.Page) ([]models.FollowEntry, int64, error) {
	return s.follows.GetReceivedRequests(viewerID, search, page)
}

func (s *RelationService) BlockedUsers(viewerID uint, search string, page repositories.Page) ([]models.BlockedEntry, int64, error) {
	return s.blocks.GetBlockedUsers(viewerID, search, page)
}

func (s *RelationService) viewable(viewerID uint, username string) (*models.User, error) {
	user, err := s.gate.userByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := s.gate.canViewUser(viewerID, user); err != nil {
		return nil, err
	}
	return user, nil
}
