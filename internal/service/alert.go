package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/restman-ops/api/internal/database"
	"github.com/restman-ops/api/internal/enum"
	"github.com/restman-ops/api/internal/notify"
)

// Alert is an ephemeral severity-tagged notification payload.
type Alert struct {
	Kind     string
	Severity string
	Subject  string
	Message  string
	Context  map[string]float64
}

// StaffStore defines the staff read alert routing needs.
// Satisfied by *database.Queries.
type StaffStore interface {
	ListActiveStaff(ctx context.Context, restaurantID uuid.UUID) ([]database.StaffUser, error)
}

// alertEligibility is the role × severity routing table. A missing
// entry means the role is never notified at that severity.
var alertEligibility = map[string]map[string]bool{
	enum.RoleOwner: {
		enum.SeverityCritical: true,
	},
	enum.RoleManager: {
		enum.SeverityCritical: true,
		enum.SeverityHigh:     true,
	},
	enum.RoleChef: {
		enum.SeverityCritical: true,
		enum.SeverityHigh:     true,
		enum.SeverityMedium:   true,
	},
	enum.RoleWaiter: {},
}

// ShouldNotify reports whether a role must be notified at a severity.
func ShouldNotify(role, severity string) bool {
	return alertEligibility[role][severity]
}

// ClassifySeverity maps free alert text to a severity by substring,
// for externally supplied payloads that carry no explicit severity.
// Alerts created inside this package always set severity directly.
func ClassifySeverity(text, fallback string) string {
	t := strings.ToLower(text)
	if strings.Contains(t, "critical") || strings.Contains(t, "urgent") {
		return enum.SeverityCritical
	}
	if strings.Contains(t, "high") {
		return enum.SeverityHigh
	}
	return fallback
}

// IsValidSeverity reports whether s is a known severity value.
func IsValidSeverity(s string) bool {
	switch s {
	case enum.SeverityCritical, enum.SeverityHigh, enum.SeverityMedium, enum.SeverityLow:
		return true
	}
	return false
}

// IsValidAlertKind reports whether k is a known alert kind.
func IsValidAlertKind(k string) bool {
	switch k {
	case enum.AlertKindVariance, enum.AlertKindWastage, enum.AlertKindStaleStock, enum.AlertKindExternal:
		return true
	}
	return false
}

// AlertService routes severity-tagged alerts to eligible staff through
// their enabled channels.
type AlertService struct {
	store StaffStore
	sms   notify.SMSSender
	email notify.EmailSender
}

// NewAlertService creates a new AlertService.
func NewAlertService(store StaffStore, sms notify.SMSSender, email notify.EmailSender) *AlertService {
	return &AlertService{store: store, sms: sms, email: email}
}

// Dispatch notifies every eligible active staff member of the
// restaurant, one best-effort attempt per channel. It never reports
// failure to its caller: transport errors are logged per recipient and
// a recipient with no reachable channel is a silent no-op.
func (s *AlertService) Dispatch(ctx context.Context, restaurantID uuid.UUID, alert Alert) {
	staff, err := s.store.ListActiveStaff(ctx, restaurantID)
	if err != nil {
		log.Printf("ERROR: dispatch alert: list staff: %v", err)
		return
	}

	body := formatAlertBody(alert)
	for _, u := range staff {
		if !ShouldNotify(u.Role, alert.Severity) {
			continue
		}
		// Null preference columns mean the channel is enabled.
		if smsEnabled(u) && u.Phone.Valid && u.Phone.String != "" {
			if !s.sms.SendSMS(ctx, u.Phone.String, body) {
				log.Printf("WARN: alert %s to %s not delivered", enum.ChannelSMS, u.FullName)
			}
		}
		if emailEnabled(u) && u.Email != "" {
			if !s.email.SendEmail(ctx, u.Email, alert.Subject, body) {
				log.Printf("WARN: alert %s to %s not delivered", enum.ChannelEmail, u.FullName)
			}
		}
	}
}

// VarianceComputer is the analytics dependency of the variance scan.
// Satisfied by *VarianceService.
type VarianceComputer interface {
	ComputeVariance(ctx context.Context, restaurantID uuid.UUID) ([]VarianceRecord, error)
}

// RunVarianceScan computes the restaurant's variance summary and
// dispatches one alert per record that crossed a threshold. Returns the
// dispatched alerts; only the analytics step can fail.
func (s *AlertService) RunVarianceScan(ctx context.Context, restaurantID uuid.UUID, engine VarianceComputer) ([]Alert, error) {
	records, err := engine.ComputeVariance(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, rec := range records {
		if rec.Alert == "" {
			continue
		}
		alert := AlertFromVariance(rec)
		s.Dispatch(ctx, restaurantID, alert)
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// AlertFromVariance builds a severity-tagged alert from a variance
// record that crossed a threshold. Severity is assigned here, at the
// point of creation: discrepancies are critical, wastage is high.
func AlertFromVariance(rec VarianceRecord) Alert {
	kind := enum.AlertKindVariance
	severity := enum.SeverityCritical
	if rec.Alert == AlertTextWastage {
		kind = enum.AlertKindWastage
		severity = enum.SeverityHigh
	}
	return Alert{
		Kind:     kind,
		Severity: severity,
		Subject:  fmt.Sprintf("Inventory alert: %s", rec.MenuItem),
		Message:  rec.Alert,
		Context: map[string]float64{
			"expected_yield": rec.ExpectedYield.InexactFloat64(),
			"actual_sales":   float64(rec.ActualSales),
			"wastage":        rec.Wastage.InexactFloat64(),
			"discrepancy":    rec.Discrepancy.InexactFloat64(),
			"invested":       rec.Invested.InexactFloat64(),
		},
	}
}

func formatAlertBody(alert Alert) string {
	var sb strings.Builder
	sb.WriteString(alert.Message)

	if len(alert.Context) > 0 {
		keys := make([]string, 0, len(alert.Context))
		for k := range alert.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("\n%s: %.2f", k, alert.Context[k]))
		}
	}
	return sb.String()
}

func smsEnabled(u database.StaffUser) bool {
	return !u.SMSEnabled.Valid || u.SMSEnabled.Bool
}

func emailEnabled(u database.StaffUser) bool {
	return !u.EmailEnabled.Valid || u.EmailEnabled.Bool
}
