// Package inmem keeps profiles in process memory. It mirrors the
// mongodb store's semantics and backs tests and database-less runs.
package inmem

import (
	"context"
	"sync"

	"github.com/devconnectapp/devconnect"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileStore struct {
	mutex    sync.RWMutex
	profiles map[devconnect.ProfileId]*devconnect.Profile
	order    []devconnect.ProfileId
}

var _ devconnect.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: map[devconnect.ProfileId]*devconnect.Profile{},
	}
}

func (s *ProfileStore) All(ctx context.Context, filter devconnect.ProfileFilter) ([]devconnect.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	profiles := []devconnect.Profile{}
	for _, id := range s.order {
		p := s.profiles[id]
		if p.Deleted || !matches(p, filter) {
			continue
		}
		profiles = append(profiles, clone(p))
	}
	return profiles, nil
}

func matches(p *devconnect.Profile, filter devconnect.ProfileFilter) bool {
	if filter.Location != "" && p.Information.Location != filter.Location {
		return false
	}
	if len(filter.Skills) == 0 {
		return true
	}
	for _, want := range filter.Skills {
		for _, skill := range p.Skills {
			if skill == want {
				return true
			}
		}
	}
	return false
}

func (s *ProfileStore) ById(ctx context.Context, id devconnect.ProfileId) (devconnect.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	return s.resolved(p), nil
}

func (s *ProfileStore) Create(ctx context.Context, name string, email string) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Deleted profiles keep their email reserved.
	for _, p := range s.profiles {
		if p.Email == email {
			return devconnect.Profile{}, devconnect.ErrEmailInUse
		}
	}

	id := devconnect.ProfileId(primitive.NewObjectID().Hex())
	profile := &devconnect.Profile{
		Id:         id,
		Name:       name,
		Email:      email,
		Skills:     []string{},
		Experience: []devconnect.Experience{},
		FriendIds:  []devconnect.ProfileId{},
	}
	s.profiles[id] = profile
	s.order = append(s.order, id)
	return clone(profile), nil
}

func (s *ProfileStore) Update(ctx context.Context, id devconnect.ProfileId, name string, email string) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if email != "" {
		for _, p := range s.profiles {
			if p.Id != id && p.Email == email {
				return devconnect.Profile{}, devconnect.ErrEmailInUse
			}
		}
	}

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	p.Name = name
	p.Email = email
	return clone(p), nil
}

func (s *ProfileStore) Delete(ctx context.Context, id devconnect.ProfileId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return err
	}
	p.Deleted = true
	return nil
}

func (s *ProfileStore) AddExperience(ctx context.Context, id devconnect.ProfileId, exp devconnect.Experience) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	exp.Id = devconnect.NewExperienceId()
	p.Experience = append(p.Experience, exp)
	return clone(p), nil
}

func (s *ProfileStore) RemoveExperience(ctx context.Context, id devconnect.ProfileId, expId devconnect.ExperienceId) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	kept := p.Experience[:0]
	for _, exp := range p.Experience {
		if exp.Id != expId {
			kept = append(kept, exp)
		}
	}
	p.Experience = kept
	return clone(p), nil
}

func (s *ProfileStore) AddSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	for _, existing := range p.Skills {
		if existing == skill {
			// Same outcome as a missing profile, like the conditional
			// update filter missing in the mongodb store.
			return devconnect.Profile{}, devconnect.ErrProfileNotFound
		}
	}
	p.Skills = append(p.Skills, skill)
	return clone(p), nil
}

func (s *ProfileStore) RemoveSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	kept := p.Skills[:0]
	for _, existing := range p.Skills {
		if existing != skill {
			kept = append(kept, existing)
		}
	}
	p.Skills = kept
	return clone(p), nil
}

func (s *ProfileStore) UpdateInformation(ctx context.Context, id devconnect.ProfileId, info devconnect.Information) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	p.Information = info
	return clone(p), nil
}

func (s *ProfileStore) AddFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	if !id.Valid() || !friendId.Valid() {
		return devconnect.Profile{}, devconnect.ErrInvalidProfileId
	}
	if id == friendId {
		return devconnect.Profile{}, devconnect.ErrSelfFriend
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	friend, ok := s.profiles[friendId]
	if !ok || friend.Deleted {
		return devconnect.Profile{}, devconnect.ErrFriendNotFound
	}
	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	for _, existing := range p.FriendIds {
		if existing == friendId {
			return devconnect.Profile{}, devconnect.ErrProfileNotFound
		}
	}
	p.FriendIds = append(p.FriendIds, friendId)
	return s.resolved(p), nil
}

func (s *ProfileStore) RemoveFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.active(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	kept := p.FriendIds[:0]
	for _, existing := range p.FriendIds {
		if existing != friendId {
			kept = append(kept, existing)
		}
	}
	p.FriendIds = kept
	return s.resolved(p), nil
}

func (s *ProfileStore) Friends(ctx context.Context, id devconnect.ProfileId) ([]devconnect.FriendSummary, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, err := s.active(id)
	if err != nil {
		return nil, err
	}
	return s.summaries(p.FriendIds), nil
}

func (s *ProfileStore) active(id devconnect.ProfileId) (*devconnect.Profile, error) {
	p, ok := s.profiles[id]
	if !ok || p.Deleted {
		return nil, devconnect.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileStore) resolved(p *devconnect.Profile) devconnect.Profile {
	profile := clone(p)
	profile.Friends = s.summaries(p.FriendIds)
	return profile
}

// Deleted friends still resolve, matching the mongodb populate join.
func (s *ProfileStore) summaries(ids []devconnect.ProfileId) []devconnect.FriendSummary {
	summaries := []devconnect.FriendSummary{}
	for _, id := range ids {
		friend, ok := s.profiles[id]
		if !ok {
			continue
		}
		summaries = append(summaries, devconnect.FriendSummary{
			Id:    friend.Id,
			Name:  friend.Name,
			Email: friend.Email,
		})
	}
	return summaries
}

func clone(p *devconnect.Profile) devconnect.Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]devconnect.Experience{}, p.Experience...)
	c.FriendIds = append([]devconnect.ProfileId{}, p.FriendIds...)
	return c
}
