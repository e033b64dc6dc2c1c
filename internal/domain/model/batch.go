package model

import "time"

type Batch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartYear int       `json:"start_year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Section struct {
	ID        int64     `json:"id"`
	BatchID   int64     `json:"batch_id"`
	BatchName string    `json:"batch_name,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
