// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/logging"
	"github.com/ekaya-inc/prospect-crm/pkg/metrics"
	"github.com/ekaya-inc/prospect-crm/pkg/middleware"
	"github.com/ekaya-inc/prospect-crm/pkg/sql"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags a search parameter.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventBatchMutation is logged when an admin endpoint rewrites data.
	EventBatchMutation SecurityEventType = "batch_mutation"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Endpoint  string            `json:"endpoint"`
	RequestID string            `json:"request_id,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails contains specifics of a flagged search parameter.
type SQLInjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
// m may be nil.
func NewSecurityAuditor(logger *zap.Logger, m *metrics.Metrics) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit"), metrics: m}
}

// ScreenParameters runs libinjection over the free-text filter values of a
// listing request and logs every detection. Search values are always bound as
// query parameters, so a detection is recorded but never blocks the request.
// Returns the number of flagged parameters.
func (a *SecurityAuditor) ScreenParameters(ctx context.Context, endpoint string, params map[string]string, clientIP string) int {
	if len(params) == 0 {
		return 0
	}
	flagged := 0
	for _, res := range sql.CheckAllParameters(params) {
		if !res.IsSQLi {
			continue
		}
		flagged++
		a.metrics.RecordInjectionDetection(res.ParamName)
		a.LogInjectionAttempt(ctx, endpoint, SQLInjectionDetails{
			ParamName:   res.ParamName,
			ParamValue:  logging.SanitizeValue(res.ParamValue),
			Fingerprint: res.Fingerprint,
		}, clientIP)
	}
	return flagged
}

// LogInjectionAttempt records a flagged search parameter.
// This is logged at WARN level with "warning" severity: the value never
// reaches SQL text, so it is a probe rather than a breach.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, endpoint string, details SQLInjectionDetails, clientIP string) {
	requestID := middleware.GetRequestID(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		Endpoint:  endpoint,
		RequestID: requestID,
		ClientIP:  clientIP,
		Details:   details,
		Severity:  "warning",
	}

	// Ignoring error as marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("SQL injection pattern in search input",
		zap.String("event_json", string(eventJSON)),
		zap.String("endpoint", endpoint),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("request_id", requestID),
		zap.String("severity", "warning"),
	)
}

// LogBatchMutation records an admin-triggered data rewrite.
func (a *SecurityAuditor) LogBatchMutation(ctx context.Context, endpoint string, details map[string]any, clientIP string) {
	requestID := middleware.GetRequestID(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventBatchMutation,
		Endpoint:  endpoint,
		RequestID: requestID,
		ClientIP:  clientIP,
		Details:   details,
		Severity:  "info",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Info("Batch mutation executed",
		zap.String("event_json", string(eventJSON)),
		zap.String("endpoint", endpoint),
		zap.String("client_ip", clientIP),
		zap.String("request_id", requestID),
		zap.String("severity", "info"),
	)
}
