package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authControllers "edusphere/controllers/auth"
	courseControllers "edusphere/controllers/course"
	"edusphere/middleware"
	authValidators "edusphere/validators/auth"
)

func SetupAuthRoutes(app *fiber.App, jwtKey string, auth *authControllers.Controller, courses *courseControllers.Controller) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), auth.Register)
	authGroup.Post("/login", authValidators.Login(), auth.Login)
	authGroup.Post("/logout", auth.Logout)
	authGroup.Get("/me", middleware.JWT(jwtKey), auth.Me)
	authGroup.Get("/my-courses", middleware.JWT(jwtKey), courses.MyCourses)
	authGroup.Get("/created-courses", middleware.JWT(jwtKey), auth.CreatedCourses)
}
