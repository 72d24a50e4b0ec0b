package services

import (
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/visibility"
)

const msgUnknownUser = "The user with this username does not exist."

// gate applies the visibility engine to single targets.
type gate struct {
	users      repositories.UserRepository
	visibility repositories.VisibilityRepository
}

func (g gate) userByUsername(username string) (*models.User, error) {
	u, err := g.users.GetUserByUsername(username)
	if err != nil {
		return nil, lookup(err, msgUnknownUser)
	}
	return u, nil
}

func (g gate) decide(viewerID uint, owner *models.User) (visibility.Decision, error) {
	facts, err := g.visibility.Facts(viewerID, owner)
	if err != nil {
		return visibility.DenyBlocked, err
	}
	return visibility.Decide(facts), nil
}

// canViewUser is the account-level check in front of every per-user listing.
func (g gate) canViewUser(viewerID uint, owner *models.User) error {
	d, err := g.decide(viewerID, owner)
	if err != nil {
		return err
	}
	switch d {
	case visibility.Allow:
		return nil
	case visibility.DenyInactive:
		return notFound("User not found")
	case visibility.DenyPrivate:
		return forbidden("This account is private.")
	default:
		return forbidden("You do not have permission to perform this action.")
	}
}

// canViewPost hides posts the viewer may not see as if they did not exist.
func (g gate) canViewPost(viewerID uint, post *models.Post) error {
	d, err := g.decide(viewerID, &post.User)
	if err != nil {
		return err
	}
	if !d.Allowed() {
		return notFound("Post not found")
	}
	return nil
}
