package dto

type BatchRequest struct {
	Name      string `json:"name"`
	StartYear int    `json:"start_year"`
}

type SectionRequest struct {
	BatchID int64  `json:"batch_id"`
	Name    string `json:"name"`
}

type NoteRequest struct {
	SectionID int64  `json:"section_id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	FileURL   string `json:"file_url"`
}

type PaperRequest struct {
	SectionID int64  `json:"section_id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	ExamYear  int    `json:"exam_year"`
	FileURL   string `json:"file_url"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type GalleryImageUpdateRequest struct {
	CategoryID int64  `json:"category_id"`
	Caption    string `json:"caption"`
}

type NoticeRequest struct {
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Publish    bool   `json:"publish"`
}
