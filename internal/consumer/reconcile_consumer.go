package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	amqp "github.com/rabbitmq/amqp091-go"
)

var logger = loggo.GetLogger("eventsvc.consumer")

const RoutingKeyReconcile = "maintenance.reconcile"

const handleTimeout = 2 * time.Minute

// Reconciler is the part of service.Reconciler the consumer drives.
type Reconciler interface {
	ReconcileEvent(ctx context.Context, eventID string) (service.ReconcileResult, error)
	Sweep(ctx context.Context) (service.SweepReport, error)
}

// ReconcileRequest is the body of a maintenance.reconcile message. An empty
// EventID asks for a full sweep.
type ReconcileRequest struct {
	EventID string `json:"event_id"`
}

type ReconcileConsumer struct {
	reconciler Reconciler
}

func NewReconcileConsumer(reconciler Reconciler) *ReconcileConsumer {
	return &ReconcileConsumer{reconciler: reconciler}
}

// Start handles deliveries until msgs is closed. The returned channel is
// closed once the consumer has stopped.
func (rc *ReconcileConsumer) Start(msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			rc.handleMessage(msg)
		}
		logger.Infof("channel closed, stopping consumer")
	}()
	return done
}

func (rc *ReconcileConsumer) handleMessage(msg amqp.Delivery) {
	if msg.RoutingKey != "" && msg.RoutingKey != RoutingKeyReconcile {
		logger.Debugf("ignoring message with routing key %s", msg.RoutingKey)
		msg.Ack(false)
		return
	}

	var req ReconcileRequest
	if len(msg.Body) > 0 {
		if err := json.Unmarshal(msg.Body, &req); err != nil {
			logger.Errorf("failed to unmarshal: %v", err)
			msg.Nack(false, false)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	switch err := rc.Handle(ctx, req); {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, service.ErrEventNotFound):
		logger.Warningf("reconcile request for unknown event %s dropped", req.EventID)
		msg.Nack(false, false)
	default:
		logger.Errorf("reconcile %q failed: %v", req.EventID, err)
		msg.Nack(false, true) // requeue
	}
}

// Handle runs one reconcile request.
func (rc *ReconcileConsumer) Handle(ctx context.Context, req ReconcileRequest) error {
	if req.EventID == "" {
		report, err := rc.reconciler.Sweep(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		logger.Infof("sweep: %d events, %d repaired, %d orphans removed", report.Events, report.Repaired, report.OrphansRemoved)
		return nil
	}

	res, err := rc.reconciler.ReconcileEvent(ctx, req.EventID)
	if err != nil {
		return errors.Trace(err)
	}
	logger.Infof("reconciled event %s: %d -> %d", res.EventID, res.Before, res.After)
	return nil
}
