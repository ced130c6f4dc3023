package controllers

import (
	"net/http"

	"snapgram_server/middleware"
	"snapgram_server/models"
	"snapgram_server/services"
	"snapgram_server/utils"

	"github.com/gorilla/mux"
)

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// MessageController handles message send and fetch between user pairs.
type MessageController struct {
	MessageService *services.MessageService
	UserService    *services.UserService
}

func NewMessageController(messageService *services.MessageService, userService *services.UserService) *MessageController {
	return &MessageController{MessageService: messageService, UserService: userService}
}

func (c *MessageController) caller(r *http.Request) (*models.User, error) {
	return c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context()))
}

// Send handles POST /message/user/{userId}: sends a message from the
// caller to userId, creating the conversation on first contact.
func (c *MessageController) Send(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req sendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	message, err := c.MessageService.Send(r.Context(), caller.UserID, mux.Vars(r)["userId"], req.Message)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusCreated, "Message sent successfully", map[string]interface{}{
		"newMessage": message,
	})
}

// Fetch handles GET /message/user/{userId}: the caller's conversation
// with userId in chronological order; messages addressed to the caller
// are marked read.
func (c *MessageController) Fetch(w http.ResponseWriter, r *http.Request) {
	caller, err := c.caller(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	messages, err := c.MessageService.Fetch(r.Context(), caller.UserID, mux.Vars(r)["userId"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Messages fetched successfully", map[string]interface{}{
		"messages": messages,
	})
}
