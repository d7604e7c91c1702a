package domain

import "time"

// StatusID is the fixed key of the singleton status row.
const StatusID = 1

// Default coordinates shown before the first status update (Zurich).
const (
	DefaultLatitude  = 47.3769
	DefaultLongitude = 8.5417
)

// StatusRecord holds the current position and distance driven.
type StatusRecord struct {
	ID                 int       `json:"id"`
	Latitude           float64   `json:"lat"`
	Longitude          float64   `json:"lng"`
	KilometersTraveled float64   `json:"km"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultStatus is used when the status row could not be found.
func DefaultStatus() StatusRecord {
	return StatusRecord{ID: StatusID, Latitude: DefaultLatitude, Longitude: DefaultLongitude}
}
