package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edusphere/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and serializes
	// concurrent writers, which sqlite cannot handle otherwise.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) Identity {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     "student",
	}
	require.NoError(t, db.Create(&user).Error)
	return Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func seedCourse(t *testing.T, db *gorm.DB, owner Identity, title string) *models.Course {
	t.Helper()

	course, err := NewCourseStore(db).Create(owner, CourseInput{
		Title:       title,
		Description: "A course about " + title,
		Category:    "Development",
		Instructor:  "Alex Johnson",
		Price:       "19.99",
	})
	require.NoError(t, err)
	return course
}
