package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type catalogStub struct {
	subjects     []models.Subject
	courses      []models.Course
	subjectCalls int
	err          error
}

func (s *catalogStub) List(ctx context.Context) ([]models.Subject, error) {
	s.subjectCalls++
	return s.subjects, s.err
}

func (s *catalogStub) ListActive(ctx context.Context) ([]models.Course, error) {
	return s.courses, s.err
}

func TestCatalogServiceSubjectsCached(t *testing.T) {
	stub := &catalogStub{subjects: []models.Subject{{ID: "math", Name: "Math"}}}
	svc := NewCatalogService(stub, stub, NewCacheService(newMemoryCache(), nil, time.Minute, nil), nil)

	first, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	second, err := svc.Subjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Math", first[0].Name)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, stub.subjectCalls)
}

func TestCatalogServiceCoursesNeverNil(t *testing.T) {
	svc := NewCatalogService(&catalogStub{}, &catalogStub{}, nil, nil)

	courses, err := svc.Courses(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestCatalogServiceWrapsErrors(t *testing.T) {
	stub := &catalogStub{err: errors.New("db down")}
	svc := NewCatalogService(stub, stub, nil, nil)

	_, err := svc.Subjects(context.Background())
	assertAppError(t, err, appErrors.ErrInternal.Code)
	_, err = svc.Courses(context.Background())
	assertAppError(t, err, appErrors.ErrInternal.Code)
}
