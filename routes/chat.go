package routes

import (
	"recipe-search-platform/internal/ai"
	"recipe-search-platform/models"
	"recipe-search-platform/utils"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(router *gin.Engine, relay *ai.ChatRelay) {
	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", gin.H{"error": err.Error()})
			return
		}

		reply, err := relay.Relay(c.Request.Context(), req.Messages)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		utils.RespondOK(c, "Chat completed", models.ChatResponse{Reply: reply})
	})
}
