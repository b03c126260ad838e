package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MonitorStatus string

const (
	MonitorStatusPending    MonitorStatus = "pending"
	MonitorStatusRunning    MonitorStatus = "running"
	MonitorStatusCompleted  MonitorStatus = "completed"
	MonitorStatusFailed     MonitorStatus = "failed"
	MonitorStatusCancelled  MonitorStatus = "cancelled"
	MonitorStatusTerminated MonitorStatus = "terminated"
)

// MonitorRun records one delay-monitoring workflow execution and its
// outcome. The workflow id links the row to the engine's execution.
type MonitorRun struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID          string        `gorm:"not null;index" json:"route_id"`
	CustomerID       string        `gorm:"not null;index" json:"customer_id"`
	CustomerEmail    string        `gorm:"not null" json:"customer_email"`
	ThresholdMinutes int           `gorm:"not null" json:"threshold_minutes"`
	Status           MonitorStatus `gorm:"type:varchar(50);default:'pending';index" json:"status"`
	DelayDetected    bool          `gorm:"default:false" json:"delay_detected"`
	DelayMinutes     int           `gorm:"default:0" json:"delay_minutes"`
	NotificationSent bool          `gorm:"default:false" json:"notification_sent"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	WorkflowID       string        `gorm:"index" json:"workflow_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (m *MonitorRun) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
