package enum

// ── Group A: Staff roles (CHECK constrained in DB) ──

const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleChef    = "CHEF"
	RoleWaiter  = "WAITER"
)

// ── Group B: Alert classification ──

const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

const (
	AlertKindVariance   = "INVENTORY_VARIANCE"
	AlertKindWastage    = "HIGH_WASTAGE"
	AlertKindStaleStock = "STALE_STOCK"
	AlertKindExternal   = "EXTERNAL"
)

// ── Group C: Notification channels (configurable labels, no DB constraint) ──

const (
	ChannelSMS   = "SMS"
	ChannelEmail = "EMAIL"
)
