package controllers

import (
	"net/http"
	"strings"

	"snapgram_server/middleware"
	"snapgram_server/models"
	"snapgram_server/services"
	"snapgram_server/utils"
)

// SearchController handles username search.
type SearchController struct {
	UserService *services.UserService
}

func NewSearchController(userService *services.UserService) *SearchController {
	return &SearchController{UserService: userService}
}

// Search handles GET /search?searchQuery=. An empty query returns an
// empty result set rather than every user.
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	if _, err := c.UserService.RequireCaller(r.Context(), middleware.ClerkID(r.Context())); err != nil {
		utils.Error(w, err)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("searchQuery"))
	users := []models.SearchResult{}
	if query != "" {
		results, err := c.UserService.Search(r.Context(), query)
		if err != nil {
			utils.Error(w, err)
			return
		}
		users = results
	}
	utils.Success(w, http.StatusOK, "Users fetched successfully", map[string]interface{}{
		"users": users,
	})
}
