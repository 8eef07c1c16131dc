package model

// Contact represents a single contact row stored in the database.
// Every contact belongs to exactly one tenant; the tenant itself is not a
// stored entity, only a partition key asserted by the caller.
type Contact struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	TenantID uint   `json:"tenant_id" gorm:"index;not null"` // For multi-tenancy
	Name     string `json:"name" gorm:"type:varchar(255);index;not null"`
	Email    string `json:"email" gorm:"not null"`
}
