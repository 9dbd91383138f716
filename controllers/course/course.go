package controllers

import (
	"github.com/gofiber/fiber/v2"

	"edusphere/middleware"
	"edusphere/store"
	"edusphere/utils"
)

// Controller exposes the course catalog handlers. Stores are injected at
// construction; handlers never reach for a global connection.
type Controller struct {
	Courses     *store.CourseStore
	Ledger      *store.EnrollmentLedger
	Coordinator *store.Coordinator
	UploadDir   string
}

func NewController(courses *store.CourseStore, ledger *store.EnrollmentLedger, coordinator *store.Coordinator, uploadDir string) *Controller {
	return &Controller{Courses: courses, Ledger: ledger, Coordinator: coordinator, UploadDir: uploadDir}
}

func (ctl *Controller) ListCourses(c *fiber.Ctx) error {
	// Retrieve validated list request
	req, ok := c.Locals("validatedList").(*store.ListRequest)
	if !ok {
		req = &store.ListRequest{}
	}

	list, err := ctl.Courses.List(req.Filter, req.Sort, req.Page, req.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", list)
}

func (ctl *Controller) GetCourse(c *fiber.Ctx) error {
	id, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not a valid ID!", nil)
	}

	course, err := ctl.Courses.Get(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (ctl *Controller) CreateCourse(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Get validated request data
	input, ok := c.Locals("validatedCourse").(*store.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Optional course image (multipart)
	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := utils.StoreCourseImage(file, ctl.UploadDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store image!", nil)
		}
		input.Image = url
	}

	course, err := ctl.Courses.Create(ident, *input)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (ctl *Controller) UpdateCourse(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not a valid ID!", nil)
	}

	patch, ok := c.Locals("validatedPatch").(*store.CoursePatch)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := utils.StoreCourseImage(file, ctl.UploadDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store image!", nil)
		}
		patch.Image = &url
	}

	course, err := ctl.Courses.Update(ident, id, *patch)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (ctl *Controller) DeleteCourse(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not a valid ID!", nil)
	}

	if err := ctl.Coordinator.DeleteCourse(ident, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
