package controllers

import (
	"net/http"

	"snapgram_server/middleware"
	"snapgram_server/models"
	"snapgram_server/services"
	"snapgram_server/utils"

	"github.com/gorilla/mux"
)

type createCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentController handles comment listing, creation and deletion.
type CommentController struct {
	CommentService *services.CommentService
	UserService    *services.UserService
}

func NewCommentController(commentService *services.CommentService, userService *services.UserService) *CommentController {
	return &CommentController{CommentService: commentService, UserService: userService}
}

func (c *CommentController) caller(r *http.Request) (*models.User, error) {
	return c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context()))
}

// ListByPost handles GET /comment/post/{postId}.
func (c *CommentController) ListByPost(w http.ResponseWriter, r *http.Request) {
	if _, err := c.caller(r); err != nil {
		utils.Error(w, err)
		return
	}
	comments, err := c.CommentService.ListByPost(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Comments fetched successfully", map[string]interface{}{
		"comments": comments,
	})
}

// Create handles POST /comment/post/{postId}.
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req createCommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	comment, err := c.CommentService.Create(r.Context(), caller, mux.Vars(r)["postId"], req.Text)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusCreated, "Comment added successfully", map[string]interface{}{
		"comment": comment,
	})
}

// Delete handles DELETE /comment/{commentId}.
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := c.CommentService.Delete(r.Context(), caller, mux.Vars(r)["commentId"]); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Comment deleted successfully", nil)
}
