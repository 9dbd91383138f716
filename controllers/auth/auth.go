package authController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edusphere/middleware"
	"edusphere/models"
	"edusphere/store"
)

type Controller struct {
	DB        *gorm.DB
	Courses   *store.CourseStore
	Ledger    *store.EnrollmentLedger
	JWTKey    string
	SaltRound int
}

func NewController(db *gorm.DB, courses *store.CourseStore, ledger *store.EnrollmentLedger, jwtKey string, saltRound int) *Controller {
	return &Controller{DB: db, Courses: courses, Ledger: ledger, JWTKey: jwtKey, SaltRound: saltRound}
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	// Get validated request data
	reqData, ok := c.Locals("validatedRegister").(*struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if email or username already exists
	var existing models.User
	err := ctl.DB.Where("email = ? OR username = ?", reqData.Email, reqData.Username).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User with this email or username already exists!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking existing user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registration failed!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ctl.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username: reqData.Username,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     "student",
	}

	// The unique constraints on email/username back up the existence check
	// above; a racing duplicate registration fails here.
	if err := ctl.DB.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User with this email or username already exists!", nil)
	}

	ident := store.Identity{UserID: newUser.ID, Username: newUser.Username, Role: newUser.Role}
	token, err := middleware.GenerateJWT(ctl.JWTKey, ident, newUser.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registration failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful!", fiber.Map{
		"user": fiber.Map{
			"id":       newUser.ID,
			"username": newUser.Username,
			"email":    newUser.Email,
			"role":     newUser.Role,
		},
		"token": token,
	})
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Find the user
	var user models.User
	if err := ctl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	ident := store.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	token, err := middleware.GenerateJWT(ctl.JWTKey, ident, user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Login failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
		"token": token,
	})
}

// Logout is a no-op server side; tokens are stateless and expire on their own.
func (ctl *Controller) Logout(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logout successful!", nil)
}

func (ctl *Controller) Me(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Authenticated.", fiber.Map{"user": ident})
}

// CreatedCourses lists the courses the caller owns.
func (ctl *Controller) CreatedCourses(c *fiber.Ctx) error {
	ident := middleware.CallerIdentity(c)
	if ident.Anonymous() {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}

	courses, err := ctl.Courses.ListCreatedBy(ident.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
