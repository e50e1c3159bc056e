package dto

type SearchQuery struct {
	Q     string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SearchHit struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SearchResponse struct {
	Posts     []SearchHit `json:"posts"`
	Questions []SearchHit `json:"questions"`
}
