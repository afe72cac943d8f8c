package power

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"nelson-infra-automation/internal/config"
	"nelson-infra-automation/internal/models"
)

// InstanceLister lists instance states
type InstanceLister interface {
	ListInstances(ctx context.Context) ([]models.InstanceStateSnapshot, error)
	StartInstances(ctx context.Context, instanceIDs []string) error
}

// Publisher publishes notifications
type Publisher interface {
	Publish(ctx context.Context, msg models.NotificationMessage) (string, error)
}

// Auditor records actions taken by the handler
type Auditor interface {
	Record(ctx context.Context, record *models.AuditRecord) error
}

// Handler starts the configured instance when it is stopped and alerts otherwise
type Handler struct {
	cfg       *config.PowerConfig
	instances InstanceLister
	publisher Publisher
	audit     Auditor
	logger    *logrus.Entry
	now       func() time.Time
}

// NewHandler creates a handler. audit may be nil.
func NewHandler(cfg *config.PowerConfig, instances InstanceLister, publisher Publisher, audit Auditor, logger *logrus.Entry) *Handler {
	return &Handler{
		cfg:       cfg,
		instances: instances,
		publisher: publisher,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle evaluates every configured instance. The event payload is ignored.
// The first failing AWS call aborts the invocation.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) error {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithField("aws_request_id", lc.AwsRequestID)
	}

	// List every instance across all pages
	snapshots, err := h.instances.ListInstances(ctx)
	if err != nil {
		return err
	}

	for _, snap := range snapshots {
		// Only the configured instances are acted on
		if !models.ContainsInstanceID(h.cfg.InstanceIDs, snap.InstanceID) {
			continue
		}

		instLogger := logger.WithFields(logrus.Fields{
			"instance_id": snap.InstanceID,
			"state":       snap.RawState,
		})

		action := models.DecidePowerAction(snap.PowerState)
		switch action {
		case models.PowerActionStart:
			instLogger.Info("OK! Instance is stopped and will be started.")
			if err := h.instances.StartInstances(ctx, h.cfg.InstanceIDs); err != nil {
				return err
			}
		case models.PowerActionNotifyAlreadyRunning:
			instLogger.Info("Instance is already running, sending notification.")
		default:
			instLogger.Info("Instance is not in a running or stopped state, sending notification")
		}

		// Running and unexpected states both alert the topic
		if msg, ok := models.NotificationFor(action, h.cfg.TopicArn); ok {
			messageID, err := h.publisher.Publish(ctx, msg)
			if err != nil {
				return err
			}
			instLogger.WithField("message_id", messageID).Debug("Notification published")
		}

		h.record(ctx, instLogger, snap, action)
	}

	return nil
}

func (h *Handler) record(ctx context.Context, logger *logrus.Entry, snap models.InstanceStateSnapshot, action models.PowerAction) {
	if h.audit == nil {
		return
	}

	rec := models.NewAuditRecord(models.HandlerInstancePower, string(action), snap.InstanceID, h.now())
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		rec.RequestID = lc.AwsRequestID
	}
	rec.Detail = map[string]string{"state": snap.RawState}

	if err := h.audit.Record(ctx, rec); err != nil {
		logger.WithError(err).Warn("Failed to write audit record")
	}
}
