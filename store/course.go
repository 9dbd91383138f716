package store

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"edusphere/models"
)

// CourseStore owns course records. All mutations are scoped to the course
// owner; the delete cascade lives on the Coordinator.
type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

// CourseInput carries the raw create payload. Price arrives as a string
// because the form layer cannot be trusted to send a number; a value that
// does not parse falls back to 0.
type CourseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Instructor  string `json:"instructor"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
	Level       string `json:"level"`
	Image       string `json:"image"`
}

// CoursePatch is a partial update; nil fields are left untouched.
type CoursePatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Instructor  *string  `json:"instructor"`
	Price       *float64 `json:"price"`
	Duration    *string  `json:"duration"`
	Level       *string  `json:"level"`
	Image       *string  `json:"image"`
}

func (p CoursePatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if p.Title != nil {
		u["title"] = *p.Title
	}
	if p.Description != nil {
		u["description"] = *p.Description
	}
	if p.Category != nil {
		u["category"] = *p.Category
	}
	if p.Instructor != nil {
		u["instructor"] = *p.Instructor
	}
	if p.Price != nil {
		u["price"] = *p.Price
	}
	if p.Duration != nil {
		u["duration"] = *p.Duration
	}
	if p.Level != nil {
		u["level"] = *p.Level
	}
	if p.Image != nil {
		u["image"] = *p.Image
	}
	return u
}

// ListFilter narrows the catalog. Category is an exact match; Instructor and
// Search are case-insensitive substring matches (Search spans title,
// description and instructor).
type ListFilter struct {
	Category   string
	Instructor string
	Search     string
}

// Sort keys accepted by List. Anything else falls back to newest.
const (
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortRating    = "rating"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListRequest is a parsed catalog query as handed over by the request layer.
type ListRequest struct {
	Filter ListFilter
	Sort   string
	Page   int
	Limit  int
}

type CourseList struct {
	Courses    []models.Course `json:"courses"`
	Total      int64           `json:"totalCourses"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

// Create validates the payload, stamps ownership from the caller's identity
// and persists the course with a zero enrolled count.
func (s *CourseStore) Create(requester Identity, in CourseInput) (*models.Course, error) {
	if requester.Anonymous() {
		return nil, ErrAuthentication
	}

	// Validate required fields
	for field, value := range map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"instructor":  in.Instructor,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || price < 0 {
		price = 0
	}

	course := models.Course{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Instructor:    strings.TrimSpace(in.Instructor),
		Price:         price,
		Duration:      in.Duration,
		Level:         in.Level,
		Rating:        4.8,
		EnrolledCount: 0,
		Image:         in.Image,
		CreatedBy:     requester.UserID,
		CreatedByName: requester.Username,
	}
	if course.Duration == "" {
		course.Duration = "40 hours"
	}
	if course.Level == "" {
		course.Level = "Beginner"
	}
	if course.Image == "" {
		course.Image = "/images/placeholder.jpg"
	}

	if err := s.db.Create(&course).Error; err != nil {
		return nil, storageErr("course.create", 0, err)
	}
	return &course, nil
}

// Get returns a single course by id.
func (s *CourseStore) Get(id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, id)
		}
		return nil, storageErr("course.get", id, err)
	}
	return &course, nil
}

// List pages through the catalog. Page and limit are clamped to positive
// values with defaults of 1 and 10.
func (s *CourseStore) List(filter ListFilter, sort string, page, limit int) (*CourseList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	q := s.db.Model(&models.Course{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Instructor != "" {
		q = q.Where("LOWER(instructor) LIKE ?", "%"+strings.ToLower(filter.Instructor)+"%")
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(instructor) LIKE ?",
			needle, needle, needle,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, storageErr("course.list.count", 0, err)
	}

	switch sort {
	case SortPopular:
		q = q.Order("enrolled_count desc")
	case SortRating:
		q = q.Order("rating desc")
	case SortPriceAsc:
		q = q.Order("price asc")
	case SortPriceDesc:
		q = q.Order("price desc")
	default:
		q = q.Order("created_at desc")
	}

	var courses []models.Course
	if err := q.Offset((page - 1) * limit).Limit(limit).Find(&courses).Error; err != nil {
		return nil, storageErr("course.list", 0, err)
	}

	return &CourseList{
		Courses:    courses,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// ListCreatedBy returns every course owned by the given user, newest first.
func (s *CourseStore) ListCreatedBy(ownerID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.Where("created_by = ?", ownerID).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, storageErr("course.listCreatedBy", ownerID, err)
	}
	return courses, nil
}

// Update patches a course after checking ownership against the fetched
// snapshot. The mutation is keyed by the snapshot's primary key so the
// record checked and the record changed are the same one.
func (s *CourseStore) Update(requester Identity, id uint, patch CoursePatch) (*models.Course, error) {
	if requester.Anonymous() {
		return nil, ErrAuthentication
	}

	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !Owns(course.CreatedBy, requester) {
		return nil, fmt.Errorf("%w: course %d", ErrAuthorization, id)
	}

	updates := patch.updates()
	if len(updates) == 0 {
		return course, nil
	}
	if err := s.db.Model(&models.Course{}).Where("id = ?", course.ID).Updates(updates).Error; err != nil {
		return nil, storageErr("course.update", id, err)
	}
	return s.Get(id)
}

// deleteByID hard-deletes a single course row. Ownership has already been
// checked by the Coordinator against the same snapshot.
func (s *CourseStore) deleteByID(id uint) error {
	if err := s.db.Delete(&models.Course{}, id).Error; err != nil {
		return storageErr("course.delete", id, err)
	}
	return nil
}
