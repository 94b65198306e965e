package devconnect

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrFriendNotFound   = errors.New("friend profile not found")
	ErrEmailInUse       = errors.New("email already in use")
	ErrInvalidProfileId = errors.New("invalid profile id")
	ErrSelfFriend       = errors.New("cannot add yourself as a friend")
)

type ProfileId string

// Valid reports whether id has the 24 character hex shape the store assigns.
func (id ProfileId) Valid() bool {
	if len(id) != 24 {
		return false
	}
	_, err := hex.DecodeString(string(id))
	return err == nil
}

type ExperienceId string

// NewExperienceId assigns ids to experience entries at insertion time.
func NewExperienceId() ExperienceId {
	return ExperienceId(uuid.NewString())
}

type Experience struct {
	Id          ExperienceId
	Title       string
	Company     string
	Dates       string
	Description string
}

type Information struct {
	Bio      string
	Location string
	Website  string
}

// FriendSummary is the shallow view produced by resolving a friend
// reference: just enough to render a friend list.
type FriendSummary struct {
	Id    ProfileId
	Name  string
	Email string
}

type Profile struct {
	Id          ProfileId
	Name        string
	Email       string
	Skills      []string
	Experience  []Experience
	Information Information
	Deleted     bool
	FriendIds   []ProfileId

	// Filled by single-profile reads that resolve FriendIds. Listing
	// operations leave it nil.
	Friends []FriendSummary
}

type ProfileFilter struct {
	// Skills matches profiles whose skill set intersects these.
	Skills []string
	// Location is an exact match against information.location.
	Location string
}

// ProfileStore owns the profile aggregate. Every operation resolves
// its profile id against non-deleted profiles; a missing or soft-deleted
// target is ErrProfileNotFound. Conditional membership updates
// (AddSkill, AddFriend) are atomic per document: the "not already
// present" condition is part of the same write that inserts.
type ProfileStore interface {
	// All returns non-deleted profiles matching filter, friends unresolved.
	All(ctx context.Context, filter ProfileFilter) ([]Profile, error)

	// ById returns a non-deleted profile with friends resolved.
	ById(ctx context.Context, id ProfileId) (Profile, error)

	// Create fails with ErrEmailInUse if any profile, deleted or not,
	// already holds email.
	Create(ctx context.Context, name string, email string) (Profile, error)

	// Update overwrites both name and email with the given values.
	// A non-empty email colliding with another profile is ErrEmailInUse.
	Update(ctx context.Context, id ProfileId, name string, email string) (Profile, error)

	// Delete flips the soft-delete flag. Deleting an already deleted
	// profile is ErrProfileNotFound, not a no-op.
	Delete(ctx context.Context, id ProfileId) error

	// AddExperience appends exp with a freshly assigned id.
	AddExperience(ctx context.Context, id ProfileId, exp Experience) (Profile, error)

	// RemoveExperience is a silent no-op when expId does not exist.
	RemoveExperience(ctx context.Context, id ProfileId, expId ExperienceId) (Profile, error)

	// AddSkill adds skill if absent. A profile that is missing, deleted
	// or already has the skill is ErrProfileNotFound.
	AddSkill(ctx context.Context, id ProfileId, skill string) (Profile, error)

	// RemoveSkill is a silent no-op when skill is absent.
	RemoveSkill(ctx context.Context, id ProfileId, skill string) (Profile, error)

	// UpdateInformation replaces the whole information sub-record.
	UpdateInformation(ctx context.Context, id ProfileId, info Information) (Profile, error)

	// AddFriend appends friendId if absent and returns the profile with
	// friends resolved. Malformed ids are ErrInvalidProfileId, id ==
	// friendId is ErrSelfFriend, a missing or deleted friend is
	// ErrFriendNotFound. A target that is missing, deleted or already
	// lists friendId is ErrProfileNotFound.
	AddFriend(ctx context.Context, id ProfileId, friendId ProfileId) (Profile, error)

	// RemoveFriend is a silent no-op when friendId is absent; the
	// returned profile has friends resolved.
	RemoveFriend(ctx context.Context, id ProfileId, friendId ProfileId) (Profile, error)

	// Friends returns the resolved friend summaries.
	Friends(ctx context.Context, id ProfileId) ([]FriendSummary, error)
}
