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

// PostController handles the feed, post CRUD and the like/bookmark
// toggles.
type PostController struct {
	PostService *services.PostService
	UserService *services.UserService
}

func NewPostController(postService *services.PostService, userService *services.UserService) *PostController {
	return &PostController{PostService: postService, UserService: userService}
}

func (c *PostController) caller(r *http.Request) (*models.User, error) {
	return c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context()))
}

// Feed handles GET /post.
func (c *PostController) Feed(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	posts, err := c.PostService.Feed(r.Context(), caller)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Posts fetched successfully", map[string]interface{}{
		"posts": posts,
	})
}

// Create handles POST /post: multipart caption + image.
func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("Failed to parse multipart form: %v", err)
		utils.Error(w, errInvalidPayload)
		return
	}

	var image *services.ImageUpload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		image = &services.ImageUpload{
			Body:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	post, err := c.PostService.Create(r.Context(), caller, r.FormValue("caption"), image)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusCreated, "Post created successfully", map[string]interface{}{
		"post": post,
	})
}

// Get handles GET /post/{postId}.
func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	detail, err := c.PostService.Get(r.Context(), caller, mux.Vars(r)["postId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Post fetched successfully", map[string]interface{}{
		"post": detail,
	})
}

// Update handles PATCH /post/{postId}: multipart caption and/or image.
func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("Failed to parse multipart form: %v", err)
		utils.Error(w, errInvalidPayload)
		return
	}

	var caption *string
	if values, ok := r.MultipartForm.Value["caption"]; ok && len(values) > 0 {
		caption = &values[0]
	}
	var image *services.ImageUpload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		image = &services.ImageUpload{
			Body:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	post, err := c.PostService.Update(r.Context(), caller, mux.Vars(r)["postId"], caption, image)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Post updated successfully", map[string]interface{}{
		"post": post,
	})
}

// Delete handles DELETE /post/{postId}.
func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := c.PostService.Delete(r.Context(), caller, mux.Vars(r)["postId"]); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Post deleted successfully", nil)
}

// UserPosts handles GET /post/user/{userId}.
func (c *PostController) UserPosts(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	posts, err := c.PostService.UserPosts(r.Context(), caller, mux.Vars(r)["userId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Posts fetched successfully", map[string]interface{}{
		"posts": posts,
	})
}

// Bookmarked handles GET /post/bookmarked.
func (c *PostController) Bookmarked(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	posts, err := c.PostService.Bookmarked(r.Context(), caller)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Bookmarked posts fetched successfully", map[string]interface{}{
		"posts": posts,
	})
}

// ToggleLike handles GET /post/toggleLike/{postId}.
func (c *PostController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	liked, likeCount, err := c.PostService.ToggleLike(r.Context(), caller, mux.Vars(r)["postId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	message := "Post unliked successfully"
	if liked {
		message = "Post liked successfully"
	}
	utils.Success(w, http.StatusOK, message, map[string]interface{}{
		"isLiked":   liked,
		"likeCount": likeCount,
	})
}

// ToggleBookmark handles GET /post/toggleBookmark/{postId}.
func (c *PostController) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	bookmarked, err := c.PostService.ToggleBookmark(r.Context(), caller, mux.Vars(r)["postId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	message := "Bookmark removed successfully"
	if bookmarked {
		message = "Post bookmarked successfully"
	}
	utils.Success(w, http.StatusOK, message, map[string]interface{}{
		"isBookmarked": bookmarked,
	})
}
