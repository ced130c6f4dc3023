package routes

import (
	"net/http"

	"snapgram_server/controllers"
	"snapgram_server/middleware"
	"snapgram_server/services"
	"snapgram_server/utils"

	"github.com/gorilla/mux"
)

// RegisterSearchRoutes sets up the username search route.
func RegisterSearchRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewSearchController(userService)

	searchRouter := r.PathPrefix("/api/v1/search").Subrouter()
	searchRouter.Use(middleware.RequireAuth())
	searchRouter.HandleFunc("", controller.Search).Methods("GET")
}

// RegisterWebhookRoutes sets up the identity provider webhook route. It
// is deliberately outside the auth middleware; the svix signature is the
// authentication.
func RegisterWebhookRoutes(r *mux.Router, controller *controllers.WebhookController) {
	r.HandleFunc("/api/v1/webhook/clerk", controller.HandleClerk).Methods("POST")
}

// RegisterHealthcheck sets up the unauthenticated liveness route.
func RegisterHealthcheck(r *mux.Router) {
	r.HandleFunc("/api/v1/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		utils.Success(w, http.StatusOK, "health status is good", nil)
	}).Methods("GET")
}
