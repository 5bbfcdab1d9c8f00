package models

// Category groups titles, e.g. "Books" or "Films". A title has at most one.
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// Genre tags titles; a title may carry several genres.
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}
