package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type subjectCatalog interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type courseCatalog interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

// CatalogService lists the subjects and courses schedule slots refer to.
type CatalogService struct {
	subjects subjectCatalog
	courses  courseCatalog
	cache    *CacheService
	logger   *zap.Logger
}

const (
	cacheKeyCatalogSubjects = "catalog:subjects"
	cacheKeyCatalogCourses  = "catalog:courses"
)

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(subjects subjectCatalog, courses courseCatalog, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{subjects: subjects, courses: courses, cache: cache, logger: logger}
}

// Subjects returns every subject ordered by name.
func (s *CatalogService) Subjects(ctx context.Context) ([]models.Subject, error) {
	var cached []models.Subject
	if s.cache.Get(ctx, cacheKeyCatalogSubjects, &cached) {
		return cached, nil
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	s.cache.Set(ctx, cacheKeyCatalogSubjects, subjects, 0)
	return subjects, nil
}

// Courses returns the active courses.
func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if s.cache.Get(ctx, cacheKeyCatalogCourses, &cached) {
		return cached, nil
	}
	courses, err := s.courses.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	s.cache.Set(ctx, cacheKeyCatalogCourses, courses, 0)
	return courses, nil
}
