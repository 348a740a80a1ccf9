package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/httpresp"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
	uc "github.com/cliniqon/clinic-scheduler/internal/usecase/appointment"
)

// PaymentHandler serves the public gateway endpoints: callback
// resolution and gateway discovery for the booking form.
type PaymentHandler struct {
	callback *uc.PaymentCallback
	gateways payment.Registry
}

func NewPaymentHandler(callback *uc.PaymentCallback, gateways payment.Registry) *PaymentHandler {
	return &PaymentHandler{callback: callback, gateways: gateways}
}

// Success handles the browser return redirect after checkout and the
// gateway's success notification.
func (h *PaymentHandler) Success(c *gin.Context) {
	h.process(c)
}

// Verify handles server-to-server confirmation webhooks.
func (h *PaymentHandler) Verify(c *gin.Context) {
	h.process(c)
}

// Cancel acknowledges an abandoned checkout. The payment record stays
// pending for staff to follow up; nothing is written here.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	httpresp.OK(c, "Payment cancelled.", nil)
}

// The redirect and webhook URLs handed to the gateway carry its name
// back as a query param; everything else is passed through for the
// gateway adapter to interpret.
func (h *PaymentHandler) process(c *gin.Context) {
	gateway := c.Query("gateway")
	if gateway == "" {
		httperr.BadRequest(c, "invalid_payment_gateway", "Gateway is required.")
		return
	}

	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	res, err := h.callback.Execute(c.Request.Context(), gateway, params)
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Payment processed.", res)
}

func (h *PaymentHandler) ListGateways(c *gin.Context) {
	var out []payment.Settings
	for _, gw := range h.gateways {
		s := gw.Settings()
		if s.Enabled {
			out = append(out, s)
		}
	}
	if out == nil {
		httperr.NotFound(c, "no_gateways", "No payment gateways configured.")
		return
	}
	httpresp.OK(c, "Gateways listed.", out)
}
