package models

// Placeholders returned for review fields that are absent in storage.
const (
	NoTitle = "제목 없음"
	NoText  = "내용 없음"
	NoDate  = "날짜 정보 없음"
)

// Review is one raw review collected for an academy. Optional fields are nil when the
// collector could not extract them.
type Review struct {
	ReviewID    string   `json:"review_id"`
	AcademyName string   `json:"academy_name"`
	Title       *string  `json:"title,omitempty"`
	Text        *string  `json:"text,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	DateCreated *string  `json:"date_created,omitempty"`
	SourceFile  string   `json:"source_file,omitempty"`
}

// ReviewView is the public shape of a review with every field defaulted.
type ReviewView struct {
	Title       string  `json:"title"`
	Text        string  `json:"text"`
	Rating      float64 `json:"rating"`
	DateCreated string  `json:"date_created"`
}

// View converts a stored review into its public shape.
func (r Review) View() ReviewView {
	v := ReviewView{Title: NoTitle, Text: NoText, DateCreated: NoDate}
	if r.Title != nil && *r.Title != "" {
		v.Title = *r.Title
	}
	if r.Text != nil && *r.Text != "" {
		v.Text = *r.Text
	}
	if r.Rating != nil {
		v.Rating = *r.Rating
	}
	if r.DateCreated != nil && *r.DateCreated != "" {
		v.DateCreated = *r.DateCreated
	}
	return v
}
