package routes

import (
	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up the profile and follow routes under
// /api/v1/user.
func RegisterUserRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	userRouter := r.PathPrefix("/api/v1/user").Subrouter()
	userRouter.Use(middleware.RequireAuth())

	userRouter.HandleFunc("", controller.EditProfile).Methods("PATCH")
	userRouter.HandleFunc("/recommended", controller.Recommended).Methods("GET")
	userRouter.HandleFunc("/followOrUnfollow/{id}", controller.ToggleFollow).Methods("GET")
	userRouter.HandleFunc("/{id}", controller.Profile).Methods("GET")
	userRouter.HandleFunc("/{id}/followers", controller.Followers).Methods("GET")
	userRouter.HandleFunc("/{id}/following", controller.Following).Methods("GET")
}
