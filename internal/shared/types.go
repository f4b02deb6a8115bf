package shared

// Asynq queue names
const (
	QueueDefault = "default"
	QueueAlerts  = "alerts"
)

// Asynq task types
const (
	TypeLowStockNotification = "alert:low_stock_notification"
	TypeReorderScan          = "alert:reorder_scan"
)

// LowStockNotificationPayload is the task payload for a low stock email.
type LowStockNotificationPayload struct {
	AlertID    string `json:"alert_id"`
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
}

// ReorderScanPayload triggers a full low-stock sweep. Empty on purpose.
type ReorderScanPayload struct{}
