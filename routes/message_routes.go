package routes

import (
	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up the messaging routes under
// /api/v1/message.
func RegisterMessageRoutes(r *mux.Router, messageService *services.MessageService, userService *services.UserService) {
	controller := controllers.NewMessageController(messageService, userService)

	messageRouter := r.PathPrefix("/api/v1/message").Subrouter()
	messageRouter.Use(middleware.RequireAuth())

	messageRouter.HandleFunc("/user/{userId}", controller.Fetch).Methods("GET")
	messageRouter.HandleFunc("/user/{userId}", controller.Send).Methods("POST")
}
