package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
)

// PaymentCallback resolves a gateway webhook or return redirect into a
// payment-record update. A confirmed payment moves the pending
// appointment to booked.
type PaymentCallback struct {
	repo       domain.Repository
	gateways   payment.Registry
	dispatcher *observer.Dispatcher
	logger     *zap.Logger
}

func NewPaymentCallback(
	repo domain.Repository,
	gateways payment.Registry,
	dispatcher *observer.Dispatcher,
	logger *zap.Logger,
) *PaymentCallback {
	return &PaymentCallback{
		repo:       repo,
		gateways:   gateways,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *PaymentCallback) Execute(
	ctx context.Context,
	gatewayName string,
	params map[string]string,
) (*payment.Result, error) {

	gw, ok := uc.gateways.Get(gatewayName)
	if !ok {
		return nil, httperr.ErrValidation("invalid_payment_gateway")
	}

	res, err := gw.HandleCallback(ctx, params)
	if err != nil {
		uc.logger.Error("payment callback failed",
			zap.String("gateway", gatewayName),
			zap.Error(err),
		)
		return nil, httperr.ErrTransaction("payment_callback_failed")
	}

	record, err := uc.repo.GetPaymentByReference(ctx, res.Reference)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, httperr.ErrNotFound("payment_not_found")
	}

	// Callbacks can be re-delivered; a record that already reached a
	// final state is left alone.
	if record.Status == payment.StatusPaid || record.Status == payment.StatusFailed {
		return res, nil
	}

	var confirmed bool
	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		record.Status = res.Status
		if res.TransactionID != "" {
			record.TransactionID = res.TransactionID
		}
		if res.PaymentID != "" {
			record.PaymentID = res.PaymentID
		}
		if err := tx.UpdatePaymentRecord(ctx, record); err != nil {
			return err
		}

		if res.Status != payment.StatusPaid {
			return nil
		}

		ap, err := tx.GetAppointment(ctx, record.AppointmentID)
		if err != nil {
			return err
		}
		if ap.Status == int(domain.StatusPending) {
			ap.Status = int(domain.StatusBooked)
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
			confirmed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		uc.dispatcher.Dispatch(observer.Event{
			Action:        "payment_confirmed",
			AppointmentID: record.AppointmentID,
			Metadata: map[string]any{
				"gateway":   record.Gateway,
				"amount":    record.Amount,
				"reference": record.Reference,
			},
		})
	}

	return res, nil
}
