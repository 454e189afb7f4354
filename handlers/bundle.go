package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler the router needs, assembled
// once in main.
type HandlerBundle struct {
	// Receptionist JSON endpoints.
	HandleTurnHandler   gin.HandlerFunc
	NewSessionHandler   gin.HandlerFunc
	ClearSessionHandler gin.HandlerFunc

	// Twilio voice webhooks.
	VoiceHandler         gin.HandlerFunc
	AfterTransferHandler gin.HandlerFunc
	TakeMessageHandler   gin.HandlerFunc
}
