package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/httpresp"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/subscription"
)

// ======================================================
// HANDLER
// ======================================================

type SubscriptionHandler struct {
	get              *subscription.Get
	selectCategories *subscription.SelectCategories
	cancel           *subscription.Cancel
	checkout         *subscription.Checkout
	confirm          *subscription.ConfirmPayment

	webhookSecret string
}

func NewSubscriptionHandler(
	get *subscription.Get,
	selectCategories *subscription.SelectCategories,
	cancel *subscription.Cancel,
	checkout *subscription.Checkout,
	confirm *subscription.ConfirmPayment,
	webhookSecret string,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		get:              get,
		selectCategories: selectCategories,
		cancel:           cancel,
		checkout:         checkout,
		confirm:          confirm,
		webhookSecret:    webhookSecret,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SelectCategoriesRequest struct {
	CategoryIDs []uint `json:"category_ids"`
}

type CheckoutRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

type webhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ======================================================
// ME / SUBSCRIPTION
// ======================================================

func (h *SubscriptionHandler) Get(c *gin.Context) {
	v, err := h.get.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_load_subscription", "Erro ao carregar assinatura.")
		return
	}
	httpresp.OK(c, v)
}

func (h *SubscriptionHandler) SelectCategories(c *gin.Context) {
	var req SelectCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	sub, err := h.selectCategories.Execute(c.Request.Context(), middleware.UserID(c), req.CategoryIDs)
	if err != nil {
		var qe *domain.QuotaExceededError
		if errors.As(err, &qe) {
			httperr.WriteDetails(c, http.StatusUnprocessableEntity,
				"quota_exceeded",
				fmt.Sprintf("Seu plano permite no máximo %d categorias.", qe.Quota),
				gin.H{"quota": qe.Quota, "requested": qe.Requested, "plan": qe.Plan},
			)
			return
		}
		httperr.FromError(c, err, "failed_to_select_categories", "Erro ao salvar categorias.")
		return
	}

	httpresp.OK(c, sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err, "failed_to_cancel_subscription", "Erro ao cancelar assinatura.")
		return
	}
	httpresp.OK(c, sub)
}

// ======================================================
// CHECKOUT
// ======================================================

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.checkout.Execute(c.Request.Context(), middleware.UserID(c), strings.TrimSpace(req.PlanType))
	if err != nil {
		httperr.FromError(c, err, "checkout_failed", "Erro ao iniciar pagamento.")
		return
	}

	status := http.StatusOK
	if res.Activated {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// Webhook recebe as notificações do MercadoPago. O id vem na query
// (data.id) e no corpo; a assinatura cobre o da query.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	var n webhookNotification
	_ = c.ShouldBindJSON(&n)

	dataID := c.Query("data.id")
	if dataID == "" {
		dataID = n.Data.ID
	}
	kind := c.Query("type")
	if kind == "" {
		kind = n.Type
	}

	if h.webhookSecret != "" {
		if !payment.VerifySignature(
			h.webhookSecret,
			c.GetHeader("x-signature"),
			c.GetHeader("x-request-id"),
			dataID,
		) {
			httperr.Unauthorized(c, "invalid_signature", "Assinatura inválida.")
			return
		}
	}

	if kind != "payment" || dataID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	res, err := h.confirm.Execute(c.Request.Context(), dataID)
	if code, ok := httperr.BusinessCode(err); ok && code != "checkout_unavailable" {
		// reenviar não muda o resultado; confirma o recebimento para o
		// processador parar de tentar
		logger.Log.Warn("payment notification discarded",
			zap.String("payment_id", dataID),
			zap.String("reason", code),
		)
		c.JSON(http.StatusOK, gin.H{"status": "discarded", "reason": code})
		return
	}
	if err != nil {
		logger.Log.Error("payment confirmation failed",
			zap.String("payment_id", dataID),
			zap.Error(err),
		)
		httperr.FromError(c, err, "payment_confirmation_failed", "Erro ao confirmar pagamento.")
		return
	}

	c.JSON(http.StatusOK, res)
}
