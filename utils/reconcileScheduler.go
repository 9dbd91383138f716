package utils

import (
	"log"

	"github.com/robfig/cron/v3"

	"edusphere/store"
)

// InitializeReconcileScheduler sets up the enrollment reconciliation sweep.
// Each run retries cascades owed from failed course deletions, removes
// orphaned enrollments and recounts enrolled_count per course.
func InitializeReconcileScheduler(co *store.Coordinator, schedule string) *cron.Cron {
	log.Println("[RECONCILE-SCHEDULER] Initializing reconciliation scheduler...")

	c := cron.New()

	if _, err := c.AddFunc(schedule, func() {
		if err := co.Reconcile(); err != nil {
			log.Printf("[RECONCILE-SCHEDULER] Reconciliation failed: %v", err)
		}
	}); err != nil {
		log.Printf("[RECONCILE-SCHEDULER] Invalid schedule %q: %v", schedule, err)
		return c
	}

	c.Start()
	log.Printf("[RECONCILE-SCHEDULER] Reconciliation scheduler started (%s)", schedule)
	return c
}
