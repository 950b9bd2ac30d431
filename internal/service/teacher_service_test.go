package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockTeacherRepo struct {
	items      map[string]*models.Teacher
	emailIndex map[string]string
	listResult []models.Teacher
	listTotal  int
	listFilter models.TeacherFilter
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{items: map[string]*models.Teacher{}, emailIndex: map[string]string{}}
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	m.listFilter = filter
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) ListBySpecialization(ctx context.Context, subject string) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.items {
		if t.Active && t.Specializes(subject) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	owner, ok := m.emailIndex[strings.ToLower(email)]
	return ok && owner != excludeID, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = "teacher-new"
	m.items[teacher.ID] = teacher
	m.emailIndex[strings.ToLower(teacher.Email)] = teacher.ID
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if _, ok := m.items[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := newMockTeacherRepo()
	audit := &auditWriterStub{}
	svc := NewTeacherService(repo, audit, nil, nil)

	teacher, err := svc.Create(context.Background(), dto.CreateTeacherRequest{
		Email:          " ana@school.test ",
		FullName:       "Ana Pérez",
		Specialization: tag("  "),
	}, "admin-1")
	require.NoError(t, err)
	assert.True(t, teacher.Active)
	assert.Equal(t, "ana@school.test", teacher.Email)
	assert.Nil(t, teacher.Specialization)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionTeacherCreate, audit.entries[0].Action)

	_, err = svc.Create(context.Background(), dto.CreateTeacherRequest{Email: "ANA@school.test", FullName: "Dup"}, "admin-1")
	assertAppError(t, err, appErrors.ErrConflict.Code)

	_, err = svc.Create(context.Background(), dto.CreateTeacherRequest{Email: "not-an-email", FullName: "X"}, "")
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestTeacherServiceUpdateTogglesActive(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.items["t1"] = &models.Teacher{ID: "t1", Email: "t1@school.test", FullName: "One", Active: true}
	repo.emailIndex["t1@school.test"] = "t1"
	audit := &auditWriterStub{}
	svc := NewTeacherService(repo, audit, nil, nil)

	inactive := false
	updated, err := svc.Update(context.Background(), "t1", dto.UpdateTeacherRequest{
		Email:          "t1@school.test",
		FullName:       "One",
		Specialization: tag("Math, Physics"),
		Active:         &inactive,
	}, "admin-1")
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Math, Physics", *repo.items["t1"].Specialization)
	require.Len(t, audit.entries, 1)
	assert.NotEmpty(t, audit.entries[0].OldValues)

	_, err = svc.Update(context.Background(), "ghost", dto.UpdateTeacherRequest{Email: "g@school.test", FullName: "G"}, "")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestTeacherServiceBySpecialization(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.items["t1"] = &models.Teacher{ID: "t1", FullName: "One", Active: true, Specialization: tag("Mathematics")}
	repo.items["t2"] = &models.Teacher{ID: "t2", FullName: "Two", Active: false, Specialization: tag("Math")}
	svc := NewTeacherService(repo, nil, nil, nil)

	teachers, err := svc.BySpecialization(context.Background(), "math")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t1", teachers[0].ID)

	teachers, err = svc.BySpecialization(context.Background(), "music")
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)

	_, err = svc.BySpecialization(context.Background(), " ")
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestTeacherServiceListPagination(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.listTotal = 42
	svc := NewTeacherService(repo, nil, nil, nil)

	teachers, page, err := svc.List(context.Background(), dto.TeacherQuery{Search: " ana ", Page: 3})
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.Equal(t, "ana", repo.listFilter.Search)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 42, page.TotalCount)
}
