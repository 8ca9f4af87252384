// Package models defines the core data structures for users and vital readings.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Name is the display name given at registration.
	Name string
	// Email is the login identity; unique across all users.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the only user representation sent to clients.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VitalFields holds the measured values of a reading.
// A nil field means the value was not supplied.
type VitalFields struct {
	// HeartRate in beats per minute.
	HeartRate *float64 `json:"heartRate"`
	// Systolic blood pressure, mmHg.
	Systolic *float64 `json:"systolic"`
	// Diastolic blood pressure, mmHg.
	Diastolic *float64 `json:"diastolic"`
	// Oxygen saturation, percent.
	Oxygen *float64 `json:"oxygen"`
	// Temperature, degrees Celsius.
	Temperature *float64 `json:"temperature"`
}

// Reading is a single immutable vitals measurement owned by one user.
type Reading struct {
	// ID is assigned by the store on insert.
	ID string `json:"id"`
	// OwnerID is the user the reading belongs to. Never serialized.
	OwnerID string `json:"-"`
	VitalFields
	// CreatedAt is assigned by the store on insert.
	CreatedAt time.Time `json:"createdAt"`
}
