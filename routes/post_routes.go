package routes

import (
	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"

	"github.com/gorilla/mux"
)

// RegisterPostRoutes sets up the feed, post CRUD and toggle routes under
// /api/v1/post.
func RegisterPostRoutes(r *mux.Router, postService *services.PostService, userService *services.UserService) {
	controller := controllers.NewPostController(postService, userService)

	postRouter := r.PathPrefix("/api/v1/post").Subrouter()
	postRouter.Use(middleware.RequireAuth())

	postRouter.HandleFunc("", controller.Feed).Methods("GET")
	postRouter.HandleFunc("", controller.Create).Methods("POST")
	postRouter.HandleFunc("/bookmarked", controller.Bookmarked).Methods("GET")
	postRouter.HandleFunc("/user/{userId}", controller.UserPosts).Methods("GET")
	postRouter.HandleFunc("/toggleLike/{postId}", controller.ToggleLike).Methods("GET")
	postRouter.HandleFunc("/toggleBookmark/{postId}", controller.ToggleBookmark).Methods("GET")
	postRouter.HandleFunc("/{postId}", controller.Get).Methods("GET")
	postRouter.HandleFunc("/{postId}", controller.Update).Methods("PATCH")
	postRouter.HandleFunc("/{postId}", controller.Delete).Methods("DELETE")
}
