package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/config"
)

func TestTokenCommandMintsValidToken(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret", Expiration: time.Hour, Issuer: "school-portal"}}
	c := &cli{ctx: context.Background(), cfg: cfg, logger: zap.NewNop(), out: &out}

	cmd := c.rootCmd()
	cmd.SetArgs([]string{"token", "--user", "U", "--role", "TEACHER"})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	auth := service.NewAuthService(nil, service.AuthConfig{AccessTokenSecret: "secret", Issuer: "school-portal"})
	claims, err := auth.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "U", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestTokenCommandRequiresUser(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret", Expiration: time.Hour}}
	c := &cli{ctx: context.Background(), cfg: cfg, logger: zap.NewNop(), out: &bytes.Buffer{}}

	cmd := c.rootCmd()
	cmd.SetArgs([]string{"token"})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestPrintNotifications(t *testing.T) {
	sub := "U"
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	printNotifications(&out, []models.ReplacementNotification{
		{ID: "n1", ScheduleSlotID: "slot-0800", SubstituteTeacherID: &sub, AbsenceDate: date, Status: models.ReplacementPending},
		{ID: "n2", ScheduleSlotID: "slot-0900", AbsenceDate: date, Status: models.ReplacementUnassignable},
	})

	text := out.String()
	assert.Contains(t, text, "n1  2024-01-01  slot=slot-0800  substitute=U  PENDING")
	assert.Contains(t, text, "substitute=-  UNASSIGNABLE")
	assert.Contains(t, text, "2 notification(s), 1 with a substitute")

	out.Reset()
	printNotifications(&out, nil)
	assert.Equal(t, "No classes scheduled, nothing to cover.\n", out.String())
}

func TestPrintPreview(t *testing.T) {
	var out bytes.Buffer
	printPreview(&out, &dto.SlotSubstitutePreview{
		Slot:       models.ScheduleSlot{ID: "slot-0800", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00", CourseID: "6A", TeacherID: "T"},
		Substitute: &models.Teacher{ID: "U", FullName: "Una"},
		Candidates: []models.Teacher{{ID: "U", FullName: "Una"}, {ID: "Y", FullName: "Yago"}},
	})

	assert.Contains(t, out.String(), "Substitute: Una (U)")
	assert.Contains(t, out.String(), "  Yago (Y)")
}
