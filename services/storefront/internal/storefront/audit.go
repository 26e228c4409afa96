package storefront

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
)

// AuditEntry represents a single audit log entry for a customer action.
type AuditEntry struct {
	CustomerID string          `json:"customer_id"`
	Action     string          `json:"action"`
	Target     string          `json:"target"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
}

// AuditLogger records customer actions in the structured log.
type AuditLogger struct {
	logger aqm.Logger
}

func NewAuditLogger(logger aqm.Logger) *AuditLogger {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &AuditLogger{logger: logger}
}

// Log records an audit entry.
func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	a.logger.Info("audit",
		"customer_id", entry.CustomerID,
		"action", entry.Action,
		"target", entry.Target,
		"payload", string(entry.Payload),
		"success", entry.Success,
		"timestamp", entry.Timestamp.Format(time.RFC3339),
		"error", entry.Error,
	)
}

func (a *AuditLogger) LogSignIn(ctx context.Context, p identity.Principal) {
	a.Log(ctx, AuditEntry{
		CustomerID: customerID(p),
		Action:     "sign-in",
		Target:     "auth",
		Success:    true,
	})
}

func (a *AuditLogger) LogSignOut(ctx context.Context, p identity.Principal) {
	a.Log(ctx, AuditEntry{
		CustomerID: customerID(p),
		Action:     "sign-out",
		Target:     "auth",
		Success:    true,
	})
}

func (a *AuditLogger) LogCancel(ctx context.Context, p identity.Principal, orderID string, success bool, errorMsg string) {
	a.Log(ctx, AuditEntry{
		CustomerID: customerID(p),
		Action:     "cancel-order",
		Target:     orderID,
		Success:    success,
		Error:      errorMsg,
	})
}

func (a *AuditLogger) LogAccountDeleted(ctx context.Context, p identity.Principal) {
	a.Log(ctx, AuditEntry{
		CustomerID: customerID(p),
		Action:     "delete-account",
		Target:     "account",
		Success:    true,
	})
}

// OrderPlaced logs an accepted order.
func (a *AuditLogger) OrderPlaced(ctx context.Context, req order.Request, res order.Result) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"correlation": req.Correlation,
		"items":       req.ItemCount(),
		"total":       req.TotalAmount.StringFixed(2),
	})

	a.Log(ctx, AuditEntry{
		CustomerID: req.CustomerID,
		Action:     "place-order",
		Target:     res.OrderID,
		Payload:    payload,
		Success:    true,
	})
	return nil
}

func customerID(p identity.Principal) string {
	if id, ok := p.Identity(); ok {
		return id.CustomerID
	}
	return ""
}
