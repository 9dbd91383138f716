package controllers

import (
	"github.com/gofiber/fiber/v2"

	"edusphere/middleware"
)

func (ctl *Controller) EnrollInCourse(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Please login to enroll!", nil)
	}

	courseID, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not a valid ID!", nil)
	}

	enrollment, err := ctl.Coordinator.Enroll(ident, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in course!", enrollment)
}

// MyCourses returns the caller's enrollments joined with course data.
func (ctl *Controller) MyCourses(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	courses, err := ctl.Ledger.ListForUser(ident)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
