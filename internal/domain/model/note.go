package model

import "time"

type Note struct {
	ID        int64     `json:"id"`
	SectionID int64     `json:"section_id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	FileURL   string    `json:"file_url"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Paper struct {
	ID        int64     `json:"id"`
	SectionID int64     `json:"section_id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	ExamYear  int       `json:"exam_year"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
