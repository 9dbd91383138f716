package store

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"edusphere/models"
)

// Coordinator sequences the operations that touch more than one record type:
// enroll (enrollment insert + course counter increment) and course deletion
// (course delete + enrollment cascade). There is no cross-record transaction;
// the Coordinator picks an order and a retry strategy so the invariants hold
// once an operation settles.
type Coordinator struct {
	db      *gorm.DB
	courses *CourseStore
	ledger  *EnrollmentLedger

	retries int
	backoff time.Duration

	mu           sync.Mutex
	pendingSweep map[uint]struct{} // course ids whose cascade or recount is owed
}

func NewCoordinator(db *gorm.DB, courses *CourseStore, ledger *EnrollmentLedger) *Coordinator {
	return &Coordinator{
		db:           db,
		courses:      courses,
		ledger:       ledger,
		retries:      3,
		backoff:      50 * time.Millisecond,
		pendingSweep: make(map[uint]struct{}),
	}
}

// Enroll registers the caller in a course. The enrollment insert is the
// atomic step; the counter increment follows as a separate atomic delta and
// is retried with backoff. If the increment still fails after retries the
// course is queued for recount and the failure is reported to the caller —
// the enrollment itself stands.
func (co *Coordinator) Enroll(requester Identity, courseID uint) (*models.Enrollment, error) {
	if requester.Anonymous() {
		return nil, ErrAuthentication
	}

	if _, err := co.courses.Get(courseID); err != nil {
		return nil, err
	}

	enrollment, err := co.ledger.Insert(requester.UserID, courseID)
	if err != nil {
		return nil, err
	}

	if err := co.adjustEnrolledCount(courseID, 1); err != nil {
		// The enrollment committed but the counter did not move. Queue the
		// course for recount so the sweep restores the derived count, and
		// surface the failure rather than pretending the operation completed
		// cleanly.
		co.markForSweep(courseID)
		log.Printf("[COORDINATOR] enroll user=%d course=%d: counter increment failed, queued for recount: %v",
			requester.UserID, courseID, err)
		return enrollment, &StorageError{Op: "enroll.increment", Target: courseID, Cascade: true, Err: err}
	}
	return enrollment, nil
}

// DeleteCourse removes a course and every enrollment referencing it. The
// course row goes first so a half-finished cascade never leaves the course
// visible with a stale counter. A cascade failure is reported to the caller
// even though the course row is already gone, and the course id is queued
// for the sweep.
func (co *Coordinator) DeleteCourse(requester Identity, courseID uint) error {
	if requester.Anonymous() {
		return ErrAuthentication
	}

	course, err := co.courses.Get(courseID)
	if err != nil {
		return err
	}
	if !Owns(course.CreatedBy, requester) {
		return fmt.Errorf("%w: course %d", ErrAuthorization, courseID)
	}

	if err := co.courses.deleteByID(course.ID); err != nil {
		return err
	}

	if _, err := co.ledger.CascadeDelete(courseID); err != nil {
		co.markForSweep(courseID)
		log.Printf("[COORDINATOR] delete course=%d: cascade failed, queued for sweep: %v", courseID, err)
		return &StorageError{Op: "course.delete.cascade", Target: courseID, Cascade: true, Err: err}
	}
	return nil
}

// adjustEnrolledCount applies an atomic delta to a course's enrolled_count.
// Never read-modify-write: the delta is computed by the database so
// concurrent adjustments cannot lose updates.
func (co *Coordinator) adjustEnrolledCount(courseID uint, delta int) error {
	var err error
	for attempt := 0; attempt <= co.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(co.backoff * time.Duration(attempt))
		}
		res := co.db.Model(&models.Course{}).
			Where("id = ?", courseID).
			UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + ?", delta))
		err = res.Error
		if err == nil {
			return nil
		}
		log.Printf("[COORDINATOR] enrolled_count adjust course=%d delta=%d attempt=%d: %v",
			courseID, delta, attempt+1, err)
	}
	return err
}

func (co *Coordinator) markForSweep(courseID uint) {
	co.mu.Lock()
	co.pendingSweep[courseID] = struct{}{}
	co.mu.Unlock()
}

// Reconcile is the maintenance pass behind the cron sweeper. It retries
// cascades owed from failed deletions, removes any enrollment whose course no
// longer exists, and resets every course's enrolled_count to the true count.
// Safe to run at any time; each step is idempotent.
func (co *Coordinator) Reconcile() error {
	co.mu.Lock()
	owed := make([]uint, 0, len(co.pendingSweep))
	for id := range co.pendingSweep {
		owed = append(owed, id)
	}
	co.pendingSweep = make(map[uint]struct{})
	co.mu.Unlock()

	for _, id := range owed {
		var course models.Course
		err := co.db.First(&course, id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// The course is gone; its cascade is what is owed.
			if _, err := co.ledger.CascadeDelete(id); err != nil {
				co.markForSweep(id)
				log.Printf("[COORDINATOR] reconcile: cascade retry course=%d failed: %v", id, err)
			}
		case err != nil:
			co.markForSweep(id)
			log.Printf("[COORDINATOR] reconcile: course=%d lookup failed: %v", id, err)
		default:
			// The course still exists, so what is owed is a recount (a
			// counter increment that never landed); the recount below
			// settles it. Deleting its enrollments here would be wrong.
		}
	}

	// Sweep orphans regardless of what was queued; a crash can lose the
	// in-memory queue.
	res := co.db.
		Where("course_id NOT IN (?)", co.db.Model(&models.Course{}).Select("id")).
		Delete(&models.Enrollment{})
	if res.Error != nil {
		return storageErr("reconcile.sweepOrphans", 0, res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[COORDINATOR] reconcile: removed %d orphaned enrollments", res.RowsAffected)
	}

	if err := co.db.Exec(
		"UPDATE courses SET enrolled_count = (SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id)",
	).Error; err != nil {
		return storageErr("reconcile.recount", 0, err)
	}
	return nil
}
