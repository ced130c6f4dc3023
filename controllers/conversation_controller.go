package controllers

import (
	"net/http"

	"snapgram_server/middleware"
	"snapgram_server/models"
	"snapgram_server/services"
	"snapgram_server/utils"

	"github.com/gorilla/mux"
)

// ConversationController handles conversation listing and deletion.
type ConversationController struct {
	ConversationService *services.ConversationService
	UserService         *services.UserService
}

func NewConversationController(conversationService *services.ConversationService, userService *services.UserService) *ConversationController {
	return &ConversationController{ConversationService: conversationService, UserService: userService}
}

func (c *ConversationController) caller(r *http.Request) (*models.User, error) {
	return c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context()))
}

// List handles GET /conversation.
func (c *ConversationController) List(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	conversations, err := c.ConversationService.List(r.Context(), caller.UserID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Conversations fetched successfully", map[string]interface{}{
		"conversations": conversations,
	})
}

// Get handles GET /conversation/{conversationId}.
func (c *ConversationController) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	conversation, err := c.ConversationService.Get(r.Context(), caller.UserID, mux.Vars(r)["conversationId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Conversation fetched successfully", map[string]interface{}{
		"conversation": conversation,
	})
}

// Delete handles DELETE /conversation/{conversationId}.
func (c *ConversationController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := c.ConversationService.Delete(r.Context(), caller.UserID, mux.Vars(r)["conversationId"]); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Conversation deleted successfully", nil)
}
