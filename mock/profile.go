package mock

import (
	"context"

	"github.com/devconnectapp/devconnect"
)

type ProfileService struct {
	AllFn               func(ctx context.Context, filter devconnect.ProfileFilter) ([]devconnect.Profile, error)
	ByIdFn              func(ctx context.Context, id devconnect.ProfileId) (devconnect.Profile, error)
	CreateFn            func(ctx context.Context, name string, email string) (devconnect.Profile, error)
	UpdateFn            func(ctx context.Context, id devconnect.ProfileId, name string, email string) (devconnect.Profile, error)
	DeleteFn            func(ctx context.Context, id devconnect.ProfileId) error
	AddExperienceFn     func(ctx context.Context, id devconnect.ProfileId, exp devconnect.Experience) (devconnect.Profile, error)
	RemoveExperienceFn  func(ctx context.Context, id devconnect.ProfileId, expId devconnect.ExperienceId) (devconnect.Profile, error)
	AddSkillFn          func(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error)
	RemoveSkillFn       func(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error)
	UpdateInformationFn func(ctx context.Context, id devconnect.ProfileId, info devconnect.Information) (devconnect.Profile, error)
	AddFriendFn         func(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error)
	RemoveFriendFn      func(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error)
	FriendsFn           func(ctx context.Context, id devconnect.ProfileId) ([]devconnect.FriendSummary, error)
}

func (s ProfileService) All(ctx context.Context, filter devconnect.ProfileFilter) ([]devconnect.Profile, error) {
	return s.AllFn(ctx, filter)
}

func (s ProfileService) ById(ctx context.Context, id devconnect.ProfileId) (devconnect.Profile, error) {
	return s.ByIdFn(ctx, id)
}

func (s ProfileService) Create(ctx context.Context, name string, email string) (devconnect.Profile, error) {
	return s.CreateFn(ctx, name, email)
}

func (s ProfileService) Update(ctx context.Context, id devconnect.ProfileId, name string, email string) (devconnect.Profile, error) {
	return s.UpdateFn(ctx, id, name, email)
}

func (s ProfileService) Delete(ctx context.Context, id devconnect.ProfileId) error {
	return s.DeleteFn(ctx, id)
}

func (s ProfileService) AddExperience(ctx context.Context, id devconnect.ProfileId, exp devconnect.Experience) (devconnect.Profile, error) {
	return s.AddExperienceFn(ctx, id, exp)
}

func (s ProfileService) RemoveExperience(ctx context.Context, id devconnect.ProfileId, expId devconnect.ExperienceId) (devconnect.Profile, error) {
	return s.RemoveExperienceFn(ctx, id, expId)
}

func (s ProfileService) AddSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	return s.AddSkillFn(ctx, id, skill)
}

func (s ProfileService) RemoveSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	return s.RemoveSkillFn(ctx, id, skill)
}

func (s ProfileService) UpdateInformation(ctx context.Context, id devconnect.ProfileId, info devconnect.Information) (devconnect.Profile, error) {
	return s.UpdateInformationFn(ctx, id, info)
}

func (s ProfileService) AddFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	return s.AddFriendFn(ctx, id, friendId)
}

func (s ProfileService) RemoveFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	return s.RemoveFriendFn(ctx, id, friendId)
}

func (s ProfileService) Friends(ctx context.Context, id devconnect.ProfileId) ([]devconnect.FriendSummary, error) {
	return s.FriendsFn(ctx, id)
}
