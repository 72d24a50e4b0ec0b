// Package visibility decides whether a viewer may see an account and the
// content it owns, given the block, follow and privacy state of the pair.
package visibility

import "errors"

// Decision is the outcome of evaluating Facts.
type Decision int

const (
	Allow Decision = iota
	DenyBlocked
	DenyInactive
	DenyPrivate
)

func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyBlocked:
		return "blocked"
	case DenyInactive:
		return "inactive"
	case DenyPrivate:
		return "private"
	default:
		return "unknown"
	}
}

var (
	ErrBlocked  = errors.New("blocked")
	ErrInactive = errors.New("account inactive")
	ErrPrivate  = errors.New("account private")
)

// Err maps a deny decision to its error, nil for Allow.
func (d Decision) Err() error {
	switch d {
	case DenyBlocked:
		return ErrBlocked
	case DenyInactive:
		return ErrInactive
	case DenyPrivate:
		return ErrPrivate
	default:
		return nil
	}
}

// Facts is everything the policy needs about a (viewer, owner) pair.
// Repositories load it with one query per relation.
type Facts struct {
	ViewerID          uint
	OwnerID           uint
	OwnerActive       bool
	OwnerPrivate      bool
	ViewerBlocksOwner bool
	OwnerBlocksViewer bool
	FollowAccepted    bool
}

func (f Facts) blocked() bool {
	return f.ViewerBlocksOwner || f.OwnerBlocksViewer
}

func (f Facts) isOwner() bool {
	return f.ViewerID != 0 && f.ViewerID == f.OwnerID
}

func (f Facts) inactive() bool {
	return !f.OwnerActive
}

func (f Facts) isPublic() bool {
	return !f.OwnerPrivate
}

func (f Facts) followsAccepted() bool {
	return f.FollowAccepted
}

// Decide evaluates the rules in precedence order. A block in either
// direction wins over everything, including ownership.
func Decide(f Facts) Decision {
	switch {
	case f.blocked():
		return DenyBlocked
	case f.isOwner():
		return Allow
	case f.inactive():
		return DenyInactive
	case f.isPublic():
		return Allow
	case f.followsAccepted():
		return Allow
	default:
		return DenyPrivate
	}
}

// CanView is shorthand for Decide(f).Allowed().
func CanView(f Facts) bool {
	return Decide(f).Allowed()
}

// CanEngage is the gate for comment, like and save writes. It is the same
// rule set as viewing; the caller distinguishes the deny reason to pick the
// right message.
func CanEngage(f Facts) Decision {
	return Decide(f)
}
