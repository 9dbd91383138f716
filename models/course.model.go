package models

import "time"

// Course rows are hard-deleted; enrollments referencing a deleted course are
// removed by the delete cascade.
type Course struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null"`
	Category      string    `json:"category" gorm:"index;not null"`
	Instructor    string    `json:"instructor" gorm:"not null"`
	Price         float64   `json:"price" gorm:"default:0"`
	Duration      string    `json:"duration" gorm:"default:'40 hours'"`
	Level         string    `json:"level" gorm:"default:'Beginner'"`
	Rating        float64   `json:"rating" gorm:"default:4.8"`
	EnrolledCount int64     `json:"enrolledCount" gorm:"not null;default:0"`
	Image         string    `json:"image" gorm:"default:'/images/placeholder.jpg'"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     uint      `json:"createdBy" gorm:"index;not null"`
	// Snapshot of the owner's username at creation time. Not re-synced on
	// username changes.
	CreatedByName string `json:"createdByName"`
}
