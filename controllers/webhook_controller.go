package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"snapgram_server/pkg/apperrors"
	"snapgram_server/services"
	"snapgram_server/utils"

	svix "github.com/svix/svix-webhooks/go"
)

// clerkEvent mirrors the identity provider's webhook payload.
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		PublicMetadata struct {
			Bio    string `json:"bio"`
			Gender string `json:"gender"`
		} `json:"public_metadata"`
	} `json:"data"`
}

// WebhookController ingests identity provider lifecycle events.
type WebhookController struct {
	UserService *services.UserService
	Webhook     *svix.Webhook
}

func NewWebhookController(userService *services.UserService, webhookSecret string) (*WebhookController, error) {
	wh, err := svix.NewWebhook(webhookSecret)
	if err != nil {
		return nil, err
	}
	return &WebhookController{UserService: userService, Webhook: wh}, nil
}

// HandleClerk handles POST /webhook/clerk. The raw body is verified
// against the svix signature headers before any state changes.
func (c *WebhookController) HandleClerk(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, errInvalidPayload)
		return
	}
	if err := c.Webhook.Verify(payload, r.Header); err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		utils.Error(w, apperrors.InvalidArg("Invalid webhook signature"))
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		utils.Error(w, errInvalidPayload)
		return
	}

	normalized := services.IdentityEvent{
		Type:     event.Type,
		ClerkID:  event.Data.ID,
		Username: event.Data.Username,
		ImageURL: event.Data.ImageURL,
		Bio:      event.Data.PublicMetadata.Bio,
		Gender:   event.Data.PublicMetadata.Gender,
	}
	if len(event.Data.EmailAddresses) > 0 {
		normalized.Email = event.Data.EmailAddresses[0].EmailAddress
	}

	if err := c.UserService.HandleIdentityEvent(r.Context(), normalized); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Webhook processed successfully", nil)
}
