package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/helpers"
)

func ChapaMiddleware(chapaClient *chapa.Client, verifier *helpers.WebhookVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("chapa_client", chapaClient)
		c.Set("webhook_verifier", verifier)
		c.Next()
	}
}

func GetChapaClient(c *gin.Context) *chapa.Client {
	client, exists := c.Get("chapa_client")
	if !exists {
		return nil
	}
	return client.(*chapa.Client)
}

func GetWebhookVerifier(c *gin.Context) *helpers.WebhookVerifier {
	verifier, exists := c.Get("webhook_verifier")
	if !exists {
		return nil
	}
	return verifier.(*helpers.WebhookVerifier)
}
