package rest

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/devconnectapp/devconnect"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ProfileController struct {
	Store devconnect.ProfileStore
}

func (c *ProfileController) InstallTo(app *fiber.App) {
	app.Get("/profiles", c.serveProfiles)
	app.Post("/profiles", c.serveCreateProfile)
	app.Get("/profiles/:id", c.serveProfile)
	app.Put("/profiles/:id", c.serveUpdateProfile)
	app.Delete("/profiles/:id", c.serveDeleteProfile)
	app.Post("/profiles/:id/experience", c.serveAddExperience)
	app.Delete("/profiles/:id/experience/:exp", c.serveRemoveExperience)
	app.Post("/profiles/:id/skills", c.serveAddSkill)
	app.Delete("/profiles/:id/skills/:skill", c.serveRemoveSkill)
	app.Put("/profiles/:id/information", c.serveUpdateInformation)
	app.Post("/profiles/:id/friends", c.serveAddFriend)
	app.Delete("/profiles/:id/friends/:friend_id", c.serveRemoveFriend)
	app.Get("/profiles/:id/friends", c.serveFriends)
}

type experienceResponse struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Dates       string `json:"dates"`
	Description string `json:"description,omitempty"`
}

type informationResponse struct {
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

type friendResponse struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type profileResponse struct {
	Id          string               `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Skills      []string             `json:"skills"`
	Experience  []experienceResponse `json:"experience"`
	Information informationResponse  `json:"information"`
	Friends     []string             `json:"friends"`
}

// friendProfileResponse renders a profile whose friend references were
// resolved to summaries. The outer Friends field shadows the embedded
// id list.
type friendProfileResponse struct {
	profileResponse
	Friends []friendResponse `json:"friends"`
}

func newProfileResponse(profile devconnect.Profile) profileResponse {
	experience := make([]experienceResponse, len(profile.Experience))
	for i, exp := range profile.Experience {
		experience[i] = experienceResponse{
			Id:          string(exp.Id),
			Title:       exp.Title,
			Company:     exp.Company,
			Dates:       exp.Dates,
			Description: exp.Description,
		}
	}
	friends := make([]string, len(profile.FriendIds))
	for i, friendId := range profile.FriendIds {
		friends[i] = string(friendId)
	}
	return profileResponse{
		Id:     string(profile.Id),
		Name:   profile.Name,
		Email:  profile.Email,
		Skills: profile.Skills,
		Information: informationResponse{
			Bio:      profile.Information.Bio,
			Location: profile.Information.Location,
			Website:  profile.Information.Website,
		},
		Experience: experience,
		Friends:    friends,
	}
}

func newFriendProfileResponse(profile devconnect.Profile) friendProfileResponse {
	return friendProfileResponse{
		profileResponse: newProfileResponse(profile),
		Friends:         newFriendResponses(profile.Friends),
	}
}

func newFriendResponses(friends []devconnect.FriendSummary) []friendResponse {
	responses := make([]friendResponse, len(friends))
	for i, friend := range friends {
		responses[i] = friendResponse{
			Id:    string(friend.Id),
			Name:  friend.Name,
			Email: friend.Email,
		}
	}
	return responses
}

func (c *ProfileController) serveProfiles(ctx *fiber.Ctx) error {
	filter := devconnect.ProfileFilter{Location: ctx.Query("location")}
	for _, skill := range ctx.Context().QueryArgs().PeekMulti("skills") {
		filter.Skills = append(filter.Skills, string(skill))
	}

	profiles, err := c.Store.All(ctx.Context(), filter)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	responses := make([]profileResponse, len(profiles))
	for i, profile := range profiles {
		responses[i] = newProfileResponse(profile)
	}
	return ctx.JSON(responses)
}

func (c *ProfileController) serveProfile(ctx *fiber.Ctx) error {
	profile, err := c.Store.ById(ctx.Context(), profileId(ctx))
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("get profile by id: %w", err)
	}
	return ctx.JSON(newFriendProfileResponse(profile))
}

func (c *ProfileController) serveCreateProfile(ctx *fiber.Ctx) error {
	var body struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := c.Store.Create(ctx.Context(), body.Name, body.Email)
	if err != nil {
		if errors.Is(err, devconnect.ErrEmailInUse) {
			return fiber.NewError(fiber.StatusBadRequest, "Email already in use")
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveUpdateProfile(ctx *fiber.Ctx) error {
	// Both fields are written as-is: a field missing from the body
	// clears the stored value.
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email" validate:"omitempty,email"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := c.Store.Update(ctx.Context(), profileId(ctx), body.Name, body.Email)
	if err != nil {
		switch {
		case errors.Is(err, devconnect.ErrEmailInUse):
			return fiber.NewError(fiber.StatusBadRequest, "Email already in use by another profile")
		case errors.Is(err, devconnect.ErrProfileNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		default:
			return fmt.Errorf("update profile: %w", err)
		}
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveDeleteProfile(ctx *fiber.Ctx) error {
	err := c.Store.Delete(ctx.Context(), profileId(ctx))
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("delete profile: %w", err)
	}

	type DeleteResponse struct {
		Message string `json:"message"`
	}
	return ctx.JSON(DeleteResponse{Message: "Profile deleted successfully"})
}

func (c *ProfileController) serveAddExperience(ctx *fiber.Ctx) error {
	var body struct {
		Title       string `json:"title" validate:"required"`
		Company     string `json:"company" validate:"required"`
		Dates       string `json:"dates" validate:"required"`
		Description string `json:"description"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := c.Store.AddExperience(ctx.Context(), profileId(ctx), devconnect.Experience{
		Title:       body.Title,
		Company:     body.Company,
		Dates:       body.Dates,
		Description: body.Description,
	})
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("add experience: %w", err)
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveRemoveExperience(ctx *fiber.Ctx) error {
	expId := devconnect.ExperienceId(ctx.Params("exp"))

	profile, err := c.Store.RemoveExperience(ctx.Context(), profileId(ctx), expId)
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("remove experience: %w", err)
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveAddSkill(ctx *fiber.Ctx) error {
	var body struct {
		Skill string `json:"skill" validate:"required"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := c.Store.AddSkill(ctx.Context(), profileId(ctx), body.Skill)
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found or skill already exists")
		}
		return fmt.Errorf("add skill: %w", err)
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveRemoveSkill(ctx *fiber.Ctx) error {
	skill, err := url.PathUnescape(ctx.Params("skill"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid skill")
	}

	profile, err := c.Store.RemoveSkill(ctx.Context(), profileId(ctx), skill)
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("remove skill: %w", err)
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveUpdateInformation(ctx *fiber.Ctx) error {
	// Full overwrite of the sub-record: missing fields become empty.
	var body struct {
		Bio      string `json:"bio"`
		Location string `json:"location"`
		Website  string `json:"website"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := c.Store.UpdateInformation(ctx.Context(), profileId(ctx), devconnect.Information{
		Bio:      body.Bio,
		Location: body.Location,
		Website:  body.Website,
	})
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("update information: %w", err)
	}
	return ctx.JSON(newProfileResponse(profile))
}

func (c *ProfileController) serveAddFriend(ctx *fiber.Ctx) error {
	var body struct {
		FriendId string `json:"friendId" validate:"required"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := c.Store.AddFriend(ctx.Context(), profileId(ctx), devconnect.ProfileId(body.FriendId))
	if err != nil {
		switch {
		case errors.Is(err, devconnect.ErrInvalidProfileId):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid profile or friend ID")
		case errors.Is(err, devconnect.ErrSelfFriend):
			return fiber.NewError(fiber.StatusBadRequest, "Cannot add yourself as a friend")
		case errors.Is(err, devconnect.ErrFriendNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Friend profile not found")
		case errors.Is(err, devconnect.ErrProfileNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Profile not found or friend already added")
		default:
			return fmt.Errorf("add friend: %w", err)
		}
	}
	return ctx.JSON(newFriendProfileResponse(profile))
}

func (c *ProfileController) serveRemoveFriend(ctx *fiber.Ctx) error {
	friendId := devconnect.ProfileId(ctx.Params("friend_id"))

	profile, err := c.Store.RemoveFriend(ctx.Context(), profileId(ctx), friendId)
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("remove friend: %w", err)
	}
	return ctx.JSON(newFriendProfileResponse(profile))
}

func (c *ProfileController) serveFriends(ctx *fiber.Ctx) error {
	friends, err := c.Store.Friends(ctx.Context(), profileId(ctx))
	if err != nil {
		if errors.Is(err, devconnect.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found")
		}
		return fmt.Errorf("get friends: %w", err)
	}
	return ctx.JSON(newFriendResponses(friends))
}

func profileId(ctx *fiber.Ctx) devconnect.ProfileId {
	return devconnect.ProfileId(ctx.Params("id"))
}
