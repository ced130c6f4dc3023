package controllers

import (
	"log"
	"net/http"

	"snapgram_server/middleware"
	"snapgram_server/models"
	"snapgram_server/services"
	"snapgram_server/utils"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds multipart request bodies (10 MiB).
const maxUploadSize = 10 << 20

// UserController handles profile, follow and recommendation requests.
type UserController struct {
	UserService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{UserService: userService}
}

func (c *UserController) caller(r *http.Request) (*models.User, error) {
	return c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context()))
}

// EditProfile handles PATCH /user: multipart form with optional bio,
// gender and profileImage parts.
func (c *UserController) EditProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("Failed to parse multipart form: %v", err)
		utils.Error(w, errInvalidPayload)
		return
	}

	var input services.EditProfileInput
	if values, ok := r.MultipartForm.Value["bio"]; ok && len(values) > 0 {
		input.Bio = &values[0]
	}
	if values, ok := r.MultipartForm.Value["gender"]; ok && len(values) > 0 {
		input.Gender = &values[0]
	}
	if file, header, err := r.FormFile("profileImage"); err == nil {
		defer file.Close()
		input.Image = &services.ImageUpload{
			Body:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	user, err := c.UserService.EditProfile(r.Context(), middleware.ClerkID(r.Context()), input)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Profile updated successfully", map[string]interface{}{
		"user": user,
	})
}

// Recommended handles GET /user/recommended.
func (c *UserController) Recommended(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	users, err := c.UserService.Recommended(r.Context(), caller)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Recommended users fetched successfully", map[string]interface{}{
		"users": users,
	})
}

// ToggleFollow handles GET /user/followOrUnfollow/{id}.
func (c *UserController) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	targetID := mux.Vars(r)["id"]
	isFollow, err := c.UserService.ToggleFollow(r.Context(), caller, targetID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	message := "User unfollowed successfully"
	if isFollow {
		message = "User followed successfully"
	}
	utils.Success(w, http.StatusOK, message, map[string]interface{}{
		"isFollow": isFollow,
	})
}

// Profile handles GET /user/{id}.
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	profile, err := c.UserService.Profile(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "User profile fetched successfully", map[string]interface{}{
		"user": profile,
	})
}

// Followers handles GET /user/{id}/followers.
func (c *UserController) Followers(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	entries, err := c.UserService.Followers(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Followers fetched successfully", map[string]interface{}{
		"users": entries,
	})
}

// Following handles GET /user/{id}/following.
func (c *UserController) Following(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	entries, err := c.UserService.Following(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Following fetched successfully", map[string]interface{}{
		"users": entries,
	})
}
