package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edusphere/config"
	"edusphere/database"
	"edusphere/models"
)

// Seeds a demo instructor account and the initial catalog. Safe to re-run:
// existing rows are left alone.

var initialCourses = []models.Course{
	{
		Title:         "Web Development Fundamentals",
		Description:   "Learn HTML, CSS, and JavaScript from scratch. Build responsive websites and understand modern web development practices.",
		Category:      "Development",
		Instructor:    "Alex Johnson",
		Price:         19.99,
		Duration:      "40 hours",
		Level:         "Beginner",
		Rating:        4.8,
		EnrolledCount: 0,
		Image:         "/images/c1.jpg",
	},
	{
		Title:         "Data Structures & Algorithms",
		Description:   "Master fundamental data structures and algorithms. Prepare for technical interviews and improve problem-solving skills.",
		Category:      "Computer Science",
		Instructor:    "Sarah Lee",
		Price:         24.99,
		Duration:      "60 hours",
		Level:         "Intermediate",
		Rating:        4.9,
		EnrolledCount: 0,
		Image:         "/images/c2.jpg",
	},
	{
		Title:         "Machine Learning Basics",
		Description:   "Introduction to machine learning concepts, algorithms, and practical applications using Python.",
		Category:      "Data Science",
		Instructor:    "Dr. Alan Turing",
		Price:         29.99,
		Duration:      "50 hours",
		Level:         "Intermediate",
		Rating:        4.7,
		EnrolledCount: 0,
		Image:         "/images/c3.jpg",
	},
	{
		Title:         "Mobile App Development",
		Description:   "Build cross-platform mobile applications using React Native. Learn to create apps for both iOS and Android.",
		Category:      "Mobile Development",
		Instructor:    "John Doe",
		Price:         19.99,
		Duration:      "45 hours",
		Level:         "Beginner",
		Rating:        4.6,
		EnrolledCount: 0,
		Image:         "/images/c4.jpg",
	},
}

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	owner := seedSystemUser(db, cfg.SaltRound)

	seeded := 0
	for _, course := range initialCourses {
		var existing models.Course
		if err := db.Where("title = ?", course.Title).First(&existing).Error; err == nil {
			continue
		}
		course.CreatedBy = owner.ID
		course.CreatedByName = owner.Username
		if err := db.Create(&course).Error; err != nil {
			log.Fatalf("Failed to seed course %q: %v", course.Title, err)
		}
		seeded++
	}

	log.Printf("Seeding complete: %d new courses.", seeded)
}

func seedSystemUser(db *gorm.DB, saltRound int) models.User {
	var user models.User
	if err := db.Where("username = ?", "system").First(&user).Error; err == nil {
		return user
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), saltRound)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	user = models.User{
		Username: "system",
		Email:    "system@edusphere.local",
		Password: string(hashed),
		Role:     "instructor",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed system user: %v", err)
	}
	return user
}
