package models

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored opinion of a title. A user reviews a title at most once.
type Review struct {
	ID       uint      `gorm:"primaryKey"`
	AuthorID uint      `gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_author_title;index"`
	Title    Title     `gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `gorm:"type:text;not null"`
	Score    int       `gorm:"not null;check:chk_reviews_score,score >= 1 AND score <= 10"`
	PubDate  time.Time `gorm:"autoCreateTime;index"`
}

// Comment is a reply attached to a review.
type Comment struct {
	ID       uint      `gorm:"primaryKey"`
	AuthorID uint      `gorm:"not null;index"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE"`
	ReviewID uint      `gorm:"not null;index"`
	Review   Review    `gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"autoCreateTime;index"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Category{}, &Genre{}, &Title{}, &Review{}, &Comment{}}
}
