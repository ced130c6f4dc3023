package routes

import (
	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"

	"github.com/gorilla/mux"
)

// RegisterCommentRoutes sets up the comment routes under /api/v1/comment.
func RegisterCommentRoutes(r *mux.Router, commentService *services.CommentService, userService *services.UserService) {
	controller := controllers.NewCommentController(commentService, userService)

	commentRouter := r.PathPrefix("/api/v1/comment").Subrouter()
	commentRouter.Use(middleware.RequireAuth())

	commentRouter.HandleFunc("/post/{postId}", controller.ListByPost).Methods("GET")
	commentRouter.HandleFunc("/post/{postId}", controller.Create).Methods("POST")
	commentRouter.HandleFunc("/{commentId}", controller.Delete).Methods("DELETE")
}
