package store

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edusphere/models"
)

// EnrollmentLedger owns enrollment records and enforces the one-enrollment-
// per-(user, course) rule at the storage layer.
type EnrollmentLedger struct {
	db *gorm.DB
}

func NewEnrollmentLedger(db *gorm.DB) *EnrollmentLedger {
	return &EnrollmentLedger{db: db}
}

// EnrolledCourse is an enrollment joined with its current course data.
type EnrolledCourse struct {
	models.Course
	Progress   int       `json:"progress"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// Insert records an enrollment for the pair. The insert is conditional on the
// (user_id, course_id) unique index: when several callers race on the same
// pair, the database accepts exactly one row and the rest see RowsAffected==0,
// which surfaces as ErrConflict. There is no existence check before the
// insert; the index is the serialization point.
func (l *EnrollmentLedger) Insert(userID, courseID uint) (*models.Enrollment, error) {
	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Progress:   0,
	}

	res := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if res.Error != nil {
		return nil, storageErr("enrollment.insert", courseID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: already enrolled in course %d", ErrConflict, courseID)
	}
	return &enrollment, nil
}

// ListForUser returns the caller's enrollments joined with current course
// data. An enrollment whose course no longer exists is skipped, not an error;
// the sweeper removes such rows.
func (l *EnrollmentLedger) ListForUser(requester Identity) ([]EnrolledCourse, error) {
	if requester.Anonymous() {
		return nil, ErrAuthentication
	}

	var enrollments []models.Enrollment
	if err := l.db.Where("user_id = ?", requester.UserID).Find(&enrollments).Error; err != nil {
		return nil, storageErr("enrollment.listForUser", requester.UserID, err)
	}
	if len(enrollments) == 0 {
		return []EnrolledCourse{}, nil
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	var courses []models.Course
	if err := l.db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
		return nil, storageErr("enrollment.listForUser.courses", requester.UserID, err)
	}
	byID := make(map[uint]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	result := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, ok := byID[e.CourseID]
		if !ok {
			// Orphaned enrollment, left behind by a failed cascade.
			log.Printf("[LEDGER] skipping orphaned enrollment %d (course %d gone)", e.ID, e.CourseID)
			continue
		}
		result = append(result, EnrolledCourse{
			Course:     course,
			Progress:   e.Progress,
			EnrolledAt: e.EnrolledAt,
		})
	}
	return result, nil
}

// CascadeDelete removes every enrollment referencing the course. Idempotent:
// deleting zero rows is success, so a retry after a partial failure is safe.
func (l *EnrollmentLedger) CascadeDelete(courseID uint) (int64, error) {
	res := l.db.Where("course_id = ?", courseID).Delete(&models.Enrollment{})
	if res.Error != nil {
		return 0, storageErr("enrollment.cascadeDelete", courseID, res.Error)
	}
	return res.RowsAffected, nil
}

// CountFor returns the live enrollment count for a course.
func (l *EnrollmentLedger) CountFor(courseID uint) (int64, error) {
	var count int64
	if err := l.db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, storageErr("enrollment.countFor", courseID, err)
	}
	return count, nil
}
