package routes

import (
	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"

	"github.com/gorilla/mux"
)

// RegisterConversationRoutes sets up the conversation routes under
// /api/v1/conversation.
func RegisterConversationRoutes(r *mux.Router, conversationService *services.ConversationService, userService *services.UserService) {
	controller := controllers.NewConversationController(conversationService, userService)

	conversationRouter := r.PathPrefix("/api/v1/conversation").Subrouter()
	conversationRouter.Use(middleware.RequireAuth())

	conversationRouter.HandleFunc("", controller.List).Methods("GET")
	conversationRouter.HandleFunc("/{conversationId}", controller.Get).Methods("GET")
	conversationRouter.HandleFunc("/{conversationId}", controller.Delete).Methods("DELETE")
}
