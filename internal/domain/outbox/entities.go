package outbox

import "time"

// CounterAdjustment journals a pending farmerCount increment before the
// document-store write. The row is deleted once the store acknowledges the
// increment, so surviving rows mark increments that may never have applied.
// Replaying a row can double-apply an increment that did land; reconciliation
// is the safety net for that.
type CounterAdjustment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	OrgID     string    `gorm:"column:org_id;size:64;not null;index"`
	OrgType   string    `gorm:"column:org_type;size:16;not null"`
	Delta     int       `gorm:"column:delta;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CounterAdjustment) TableName() string { return "counter_adjustments" }
