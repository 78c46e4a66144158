package directory

import (
	"time"
)

// Setting is a portal configuration row. Values are stored as JSON text so
// the admin surface can keep arbitrary structures (the department navigation
// order is a JSON array of ids under SettingDepartmentOrder).
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedBy string    `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Well-known setting keys.
const (
	SettingDepartmentOrder = "department_order"
)
