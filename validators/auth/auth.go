package authValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edusphere/middleware"
)

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Username
		if strings.TrimSpace(reqData.Username) == "" {
			errors["username"] = "Username is required!"
		}

		// Validate Email
		email := strings.TrimSpace(reqData.Email)
		if email == "" {
			errors["email"] = "Email is required!"
		} else if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
			errors["email"] = "Email is not valid!"
		}

		// Validate Password
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		} else if len(reqData.Password) < 6 {
			errors["password"] = "Password must be at least 6 characters!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = email

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Email) == "" {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Email = strings.TrimSpace(reqData.Email)

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
