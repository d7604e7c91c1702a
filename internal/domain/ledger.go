package domain

import "time"

// PerKmPledge is a donor's commitment to pay a rate for every kilometer driven.
type PerKmPledge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AmountPerKm float64   `json:"amount_per_km"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FixedDonation is a donor's one-time flat commitment.
type FixedDonation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
