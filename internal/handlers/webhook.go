// internal/handlers/webhook.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type WebhookHandler struct {
	orderService *services.OrderService
}

func NewWebhookHandler(orderService *services.OrderService) *WebhookHandler {
	return &WebhookHandler{
		orderService: orderService,
	}
}

// PixNotification is the gateway's push payload: one POST may carry several
// settled transactions.
type PixNotification struct {
	Pix []struct {
		TxID  string `json:"txid"`
		Valor string `json:"valor"`
	} `json:"pix"`
}

// POST /api/webhook/pix
//
// The gateway retries on non-2xx, so per-transaction failures are logged and
// the endpoint still acknowledges: a permanently failing txid must not wedge
// delivery of the others.
func (h *WebhookHandler) HandlePixWebhook(c *gin.Context) {
	var notification PixNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.BadRequestResponse(c, "invalid webhook payload", err.Error())
		return
	}

	for _, pix := range notification.Pix {
		if pix.TxID == "" {
			continue
		}
		if err := h.orderService.HandleWebhook(pix.TxID); err != nil {
			logrus.WithError(err).WithField("txid", pix.TxID).Error("Webhook processing failed")
		}
	}

	utils.SuccessResponse(c, gin.H{"received": len(notification.Pix)})
}
