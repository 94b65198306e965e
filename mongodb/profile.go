package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/devconnectapp/devconnect"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type experienceDoc struct {
	Id          string `bson:"_id"`
	Title       string `bson:"title"`
	Company     string `bson:"company"`
	Dates       string `bson:"dates"`
	Description string `bson:"description,omitempty"`
}

type informationDoc struct {
	Bio      string `bson:"bio,omitempty"`
	Location string `bson:"location,omitempty"`
	Website  string `bson:"website,omitempty"`
}

type profileDoc struct {
	Id          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Email       string               `bson:"email"`
	Skills      []string             `bson:"skills"`
	Experience  []experienceDoc      `bson:"experience"`
	Information informationDoc       `bson:"information"`
	Deleted     bool                 `bson:"deleted"`
	Friends     []primitive.ObjectID `bson:"friends"`
}

func (d profileDoc) ToDomain() devconnect.Profile {
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	experience := make([]devconnect.Experience, len(d.Experience))
	for i, exp := range d.Experience {
		experience[i] = devconnect.Experience{
			Id:          devconnect.ExperienceId(exp.Id),
			Title:       exp.Title,
			Company:     exp.Company,
			Dates:       exp.Dates,
			Description: exp.Description,
		}
	}
	friendIds := make([]devconnect.ProfileId, len(d.Friends))
	for i, friendId := range d.Friends {
		friendIds[i] = devconnect.ProfileId(friendId.Hex())
	}
	return devconnect.Profile{
		Id:     devconnect.ProfileId(d.Id.Hex()),
		Name:   d.Name,
		Email:  d.Email,
		Skills: skills,
		Information: devconnect.Information{
			Bio:      d.Information.Bio,
			Location: d.Information.Location,
			Website:  d.Information.Website,
		},
		Experience: experience,
		Deleted:    d.Deleted,
		FriendIds:  friendIds,
	}
}

type ProfileStore struct {
	Collection *mongo.Collection
}

var _ devconnect.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{Collection: db.Collection("profiles")}
}

// EnsureIndexes backs the application-level email pre-check with a
// unique index, so a concurrent duplicate insert loses at the store.
func (s *ProfileStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (s *ProfileStore) All(ctx context.Context, filter devconnect.ProfileFilter) ([]devconnect.Profile, error) {
	query := bson.M{"deleted": false}
	if len(filter.Skills) > 0 {
		query["skills"] = bson.M{"$in": filter.Skills}
	}
	if filter.Location != "" {
		query["information.location"] = filter.Location
	}

	cursor, err := s.Collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]devconnect.Profile, len(docs))
	for i, doc := range docs {
		profiles[i] = doc.ToDomain()
	}
	return profiles, nil
}

func (s *ProfileStore) ById(ctx context.Context, id devconnect.ProfileId) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	var doc profileDoc
	err = s.Collection.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return devconnect.Profile{}, devconnect.ErrProfileNotFound
		}
		return devconnect.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return s.resolveFriends(ctx, doc)
}

func (s *ProfileStore) Create(ctx context.Context, name string, email string) (devconnect.Profile, error) {
	// Deleted profiles keep their email reserved, so no deleted filter.
	count, err := s.Collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return devconnect.Profile{}, fmt.Errorf("count profiles by email: %w", err)
	}
	if count > 0 {
		return devconnect.Profile{}, devconnect.ErrEmailInUse
	}

	doc := profileDoc{
		Name:       name,
		Email:      email,
		Skills:     []string{},
		Experience: []experienceDoc{},
		Friends:    []primitive.ObjectID{},
	}
	res, err := s.Collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return devconnect.Profile{}, devconnect.ErrEmailInUse
		}
		return devconnect.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	doc.Id = res.InsertedID.(primitive.ObjectID)
	return doc.ToDomain(), nil
}

func (s *ProfileStore) Update(ctx context.Context, id devconnect.ProfileId, name string, email string) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	if email != "" {
		count, err := s.Collection.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": oid}})
		if err != nil {
			return devconnect.Profile{}, fmt.Errorf("count profiles by email: %w", err)
		}
		if count > 0 {
			return devconnect.Profile{}, devconnect.ErrEmailInUse
		}
	}

	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{"name": name, "email": email}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) Delete(ctx context.Context, id devconnect.ProfileId) error {
	oid, err := objectId(id)
	if err != nil {
		return err
	}

	// The deleted:false filter makes a second delete miss, which is the
	// wanted outcome: double delete reports not found.
	res, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return fmt.Errorf("soft delete profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return devconnect.ErrProfileNotFound
	}
	return nil
}

func (s *ProfileStore) AddExperience(ctx context.Context, id devconnect.ProfileId, exp devconnect.Experience) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	entry := experienceDoc{
		Id:          string(devconnect.NewExperienceId()),
		Title:       exp.Title,
		Company:     exp.Company,
		Dates:       exp.Dates,
		Description: exp.Description,
	}
	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$push": bson.M{"experience": entry}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) RemoveExperience(ctx context.Context, id devconnect.ProfileId, expId devconnect.ExperienceId) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$pull": bson.M{"experience": bson.M{"_id": string(expId)}}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) AddSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	// The duplicate check lives in the filter so concurrent adds of the
	// same skill race on a single atomic write; the loser matches
	// nothing and reports not found.
	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false, "skills": bson.M{"$ne": skill}},
		bson.M{"$push": bson.M{"skills": skill}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) RemoveSkill(ctx context.Context, id devconnect.ProfileId, skill string) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$pull": bson.M{"skills": skill}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) UpdateInformation(ctx context.Context, id devconnect.ProfileId, info devconnect.Information) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}

	// Whole sub-record replace: fields missing from info clear.
	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{"information": informationDoc{
			Bio:      info.Bio,
			Location: info.Location,
			Website:  info.Website,
		}}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (s *ProfileStore) AddFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	if !id.Valid() || !friendId.Valid() {
		return devconnect.Profile{}, devconnect.ErrInvalidProfileId
	}
	if id == friendId {
		return devconnect.Profile{}, devconnect.ErrSelfFriend
	}
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	foid, err := objectId(friendId)
	if err != nil {
		return devconnect.Profile{}, err
	}

	err = s.Collection.FindOne(ctx,
		bson.M{"_id": foid, "deleted": false},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return devconnect.Profile{}, devconnect.ErrFriendNotFound
		}
		return devconnect.Profile{}, fmt.Errorf("find friend profile: %w", err)
	}

	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false, "friends": bson.M{"$ne": foid}},
		bson.M{"$push": bson.M{"friends": foid}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return s.resolveFriends(ctx, doc)
}

func (s *ProfileStore) RemoveFriend(ctx context.Context, id devconnect.ProfileId, friendId devconnect.ProfileId) (devconnect.Profile, error) {
	oid, err := objectId(id)
	if err != nil {
		return devconnect.Profile{}, err
	}
	foid, err := objectId(friendId)
	if err != nil {
		return devconnect.Profile{}, err
	}

	doc, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$pull": bson.M{"friends": foid}})
	if err != nil {
		return devconnect.Profile{}, err
	}
	return s.resolveFriends(ctx, doc)
}

func (s *ProfileStore) Friends(ctx context.Context, id devconnect.ProfileId) ([]devconnect.FriendSummary, error) {
	oid, err := objectId(id)
	if err != nil {
		return nil, err
	}

	var doc profileDoc
	err = s.Collection.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, devconnect.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return s.friendSummaries(ctx, doc.Friends)
}

func (s *ProfileStore) findOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (profileDoc, error) {
	var doc profileDoc
	err := s.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profileDoc{}, devconnect.ErrProfileNotFound
		}
		return profileDoc{}, fmt.Errorf("update profile: %w", err)
	}
	return doc, nil
}

func (s *ProfileStore) resolveFriends(ctx context.Context, doc profileDoc) (devconnect.Profile, error) {
	profile := doc.ToDomain()
	friends, err := s.friendSummaries(ctx, doc.Friends)
	if err != nil {
		return devconnect.Profile{}, err
	}
	profile.Friends = friends
	return profile, nil
}

// friendSummaries is the populate-on-read join: a second lookup after
// the primary fetch. Deleted friends still resolve; dangling
// references are skipped.
func (s *ProfileStore) friendSummaries(ctx context.Context, ids []primitive.ObjectID) ([]devconnect.FriendSummary, error) {
	summaries := []devconnect.FriendSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := s.Collection.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
	if err != nil {
		return nil, fmt.Errorf("find friend profiles: %w", err)
	}
	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode friend profiles: %w", err)
	}

	// $in returns documents in arbitrary order; keep friend list order.
	byId := make(map[primitive.ObjectID]profileDoc, len(docs))
	for _, doc := range docs {
		byId[doc.Id] = doc
	}
	for _, id := range ids {
		doc, ok := byId[id]
		if !ok {
			continue
		}
		summaries = append(summaries, devconnect.FriendSummary{
			Id:    devconnect.ProfileId(doc.Id.Hex()),
			Name:  doc.Name,
			Email: doc.Email,
		})
	}
	return summaries, nil
}

func objectId(id devconnect.ProfileId) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse profile id %q: %w", id, err)
	}
	return oid, nil
}
