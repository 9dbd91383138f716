package models

import "time"

// Enrollment links a user to a course. The composite unique index on
// (user_id, course_id) is what makes concurrent enroll attempts for the same
// pair resolve to exactly one row.
type Enrollment struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID   uint      `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Progress   int       `json:"progress" gorm:"default:0"` // 0-100
}
