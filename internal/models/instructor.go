package models

import "time"

// Instructor is a staff member who can be rostered for instruction slots.
type Instructor struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Ratings   string    `db:"ratings" json:"ratings,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorFilter captures filtering criteria for listing instructors.
type InstructorFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
