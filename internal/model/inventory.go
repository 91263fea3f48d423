package model

type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

type Vehicle struct {
	ID                 int64   `json:"inv_id"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               string  `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int64   `json:"inv_miles"`
	Color              string  `json:"inv_color"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name"`
}
