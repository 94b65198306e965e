package inmem

import (
	"context"
	"testing"

	"github.com/devconnectapp/devconnect"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileStoreCreateUniqueEmail(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	profile, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{}, profile.Skills)
	assert.False(profile.Deleted)

	_, err = store.Create(ctx, "Impostor", "a@x.com")
	assert.ErrorIs(err, devconnect.ErrEmailInUse)

	// deleted profiles keep their email reserved
	assert.NoError(store.Delete(ctx, profile.Id))
	_, err = store.Create(ctx, "Impostor", "a@x.com")
	assert.ErrorIs(err, devconnect.ErrEmailInUse)
}

func TestProfileStoreDeleteNotIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	profile, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}

	assert.NoError(store.Delete(ctx, profile.Id))
	assert.ErrorIs(store.Delete(ctx, profile.Id), devconnect.ErrProfileNotFound)

	// a deleted profile is invisible to reads and mutations
	_, err = store.ById(ctx, profile.Id)
	assert.ErrorIs(err, devconnect.ErrProfileNotFound)
	_, err = store.AddSkill(ctx, profile.Id, "x")
	assert.ErrorIs(err, devconnect.ErrProfileNotFound)
}

func TestProfileStoreSkillRoundTrip(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	profile, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}

	updated, err := store.AddSkill(ctx, profile.Id, "go")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{"go"}, updated.Skills)

	// the duplicate shares the not found outcome
	_, err = store.AddSkill(ctx, profile.Id, "go")
	assert.ErrorIs(err, devconnect.ErrProfileNotFound)

	updated, err = store.RemoveSkill(ctx, profile.Id, "go")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{}, updated.Skills)

	updated, err = store.RemoveSkill(ctx, profile.Id, "go")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{}, updated.Skills)
}

func TestProfileStoreFriendsOneDirectional(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	alice, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}
	bob, err := store.Create(ctx, "Bob", "b@x.com")
	if !assert.NoError(err) {
		return
	}

	updated, err := store.AddFriend(ctx, alice.Id, bob.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]devconnect.FriendSummary{
		{Id: bob.Id, Name: "Bob", Email: "b@x.com"},
	}, updated.Friends)

	_, err = store.AddFriend(ctx, alice.Id, bob.Id)
	assert.ErrorIs(err, devconnect.ErrProfileNotFound)

	bobFriends, err := store.Friends(ctx, bob.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(bobFriends)

	updated, err = store.RemoveFriend(ctx, alice.Id, bob.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(updated.Friends)
}

func TestProfileStoreAddFriendRejections(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	alice, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}

	_, err = store.AddFriend(ctx, alice.Id, alice.Id)
	assert.ErrorIs(err, devconnect.ErrSelfFriend)

	_, err = store.AddFriend(ctx, alice.Id, "not-an-id")
	assert.ErrorIs(err, devconnect.ErrInvalidProfileId)

	ghost := devconnect.ProfileId(primitive.NewObjectID().Hex())
	_, err = store.AddFriend(ctx, alice.Id, ghost)
	assert.ErrorIs(err, devconnect.ErrFriendNotFound)

	// a deleted profile can not be befriended
	bob, err := store.Create(ctx, "Bob", "b@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.NoError(store.Delete(ctx, bob.Id))
	_, err = store.AddFriend(ctx, alice.Id, bob.Id)
	assert.ErrorIs(err, devconnect.ErrFriendNotFound)
}

func TestProfileStoreExperienceRemovalNoOp(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	profile, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}
	updated, err := store.AddExperience(ctx, profile.Id, devconnect.Experience{
		Title:   "Developer",
		Company: "Acme",
		Dates:   "2020-",
	})
	if !assert.NoError(err) {
		return
	}
	assert.Len(updated.Experience, 1)
	assert.NotEmpty(updated.Experience[0].Id)

	updated, err = store.RemoveExperience(ctx, profile.Id, devconnect.NewExperienceId())
	if !assert.NoError(err) {
		return
	}
	assert.Len(updated.Experience, 1)
}

func TestProfileStoreUpdateOverwrites(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	alice, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}
	bob, err := store.Create(ctx, "Bob", "b@x.com")
	if !assert.NoError(err) {
		return
	}

	_, err = store.Update(ctx, alice.Id, "Alice", bob.Email)
	assert.ErrorIs(err, devconnect.ErrEmailInUse)

	// both fields are written as given; an empty name clears
	updated, err := store.Update(ctx, alice.Id, "", "alice@x.com")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("", updated.Name)
	assert.Equal("alice@x.com", updated.Email)
}

func TestProfileStoreAllFilters(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewProfileStore()

	alice, err := store.Create(ctx, "Alice", "a@x.com")
	if !assert.NoError(err) {
		return
	}
	bob, err := store.Create(ctx, "Bob", "b@x.com")
	if !assert.NoError(err) {
		return
	}
	if _, err := store.AddSkill(ctx, alice.Id, "go"); !assert.NoError(err) {
		return
	}
	if _, err := store.UpdateInformation(ctx, bob.Id, devconnect.Information{Location: "Warsaw"}); !assert.NoError(err) {
		return
	}

	all, err := store.All(ctx, devconnect.ProfileFilter{})
	if !assert.NoError(err) {
		return
	}
	assert.Len(all, 2)

	bySkill, err := store.All(ctx, devconnect.ProfileFilter{Skills: []string{"go", "rust"}})
	if !assert.NoError(err) {
		return
	}
	if assert.Len(bySkill, 1) {
		assert.Equal(alice.Id, bySkill[0].Id)
	}

	byLocation, err := store.All(ctx, devconnect.ProfileFilter{Location: "Warsaw"})
	if !assert.NoError(err) {
		return
	}
	if assert.Len(byLocation, 1) {
		assert.Equal(bob.Id, byLocation[0].Id)
	}
}
