package model

import "time"

type GalleryCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryImage struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Caption    string    `json:"caption"`
	ObjectKey  string    `json:"-"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}
