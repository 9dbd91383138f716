package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "edusphere/controllers/course"
	"edusphere/middleware"
	validators "edusphere/validators/course"
)

// SetupCourseRoutes sets up the catalog and enrollment routes
func SetupCourseRoutes(app *fiber.App, jwtKey string, ctl *controllers.Controller) {
	courseGroup := app.Group("/courses")

	// Public catalog
	courseGroup.Get("/", validators.CourseList(), ctl.ListCourses)
	courseGroup.Get("/:id", validators.CourseID(), ctl.GetCourse)

	// Owner-scoped mutations
	courseGroup.Post("/", middleware.JWT(jwtKey), validators.CreateCourse(), ctl.CreateCourse)
	courseGroup.Put("/:id", middleware.JWT(jwtKey), validators.CourseID(), validators.UpdateCourse(), ctl.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWT(jwtKey), validators.CourseID(), ctl.DeleteCourse)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWT(jwtKey), validators.CourseID(), ctl.EnrollInCourse)
}
