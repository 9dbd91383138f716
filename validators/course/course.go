package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"edusphere/middleware"
	"edusphere/store"
)

// CourseID validates the :id route parameter and stores it as a uint.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("id")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not a valid ID!", nil)
		}
		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &store.CourseInput{
			Title:       c.FormValue("title", ""),
			Description: c.FormValue("description", ""),
			Category:    c.FormValue("category", ""),
			Instructor:  c.FormValue("instructor", ""),
			Price:       c.FormValue("price", ""),
			Duration:    c.FormValue("duration", ""),
			Level:       c.FormValue("level", ""),
		}

		// JSON bodies carry the same fields
		if strings.Contains(c.Get("Content-Type"), "application/json") {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Category is required!"
		}
		if strings.TrimSpace(reqData.Instructor) == "" {
			errors["instructor"] = "Instructor is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch := new(store.CoursePatch)

		if strings.Contains(c.Get("Content-Type"), "application/json") {
			if err := c.BodyParser(patch); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		} else {
			// Form fields: only present keys become part of the patch
			form := map[string]*string{}
			for _, key := range []string{"title", "description", "category", "instructor", "duration", "level"} {
				if v := c.FormValue(key, "\x00"); v != "\x00" {
					value := v
					form[key] = &value
				}
			}
			patch.Title = form["title"]
			patch.Description = form["description"]
			patch.Category = form["category"]
			patch.Instructor = form["instructor"]
			patch.Duration = form["duration"]
			patch.Level = form["level"]
			if v := c.FormValue("price", "\x00"); v != "\x00" {
				if price, err := strconv.ParseFloat(v, 64); err == nil && price >= 0 {
					patch.Price = &price
				}
			}
		}

		errors := make(map[string]string)

		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
			errors["description"] = "Description cannot be empty!"
		}
		if patch.Price != nil && *patch.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPatch", patch)
		return c.Next()
	}
}

// CourseList parses catalog query parameters: category, instructor, search,
// sort, page, limit. Missing or malformed page/limit fall back to defaults.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := &store.ListRequest{
			Filter: store.ListFilter{
				Category:   c.Query("category"),
				Instructor: c.Query("instructor"),
				Search:     c.Query("search"),
			},
			Sort: c.Query("sort", store.SortNewest),
		}

		req.Page = c.QueryInt("page", 1)
		if req.Page < 1 {
			req.Page = 1
		}
		req.Limit = c.QueryInt("limit", 10)
		if req.Limit < 1 {
			req.Limit = 10
		}

		c.Locals("validatedList", req)
		return c.Next()
	}
}
