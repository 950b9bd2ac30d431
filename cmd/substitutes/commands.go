package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
)

const cliActor = "cli"

func (c *cli) reportCmd() *cobra.Command {
	var reason, until string
	cmd := &cobra.Command{
		Use:   "report <teacherId> <date>",
		Short: "Report an absence and propose substitutes for every class that day",
		Long:  "Report an absence for YYYY-MM-DD. With --until the absence covers every school day up to that date.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			var notifications []models.ReplacementNotification
			if until != "" {
				notifications, err = a.Substitution.ReportAbsencePeriod(c.ctx, dto.ReportAbsencePeriodRequest{
					TeacherID: args[0], From: args[1], To: until, Reason: reason,
				}, cliActor)
			} else {
				notifications, err = a.Substitution.ReportAbsence(c.ctx, dto.ReportAbsenceRequest{
					TeacherID: args[0], AbsenceDate: args[1], Reason: reason,
				}, cliActor)
			}
			if err != nil {
				return err
			}
			printNotifications(c.out, notifications)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the substitute")
	cmd.Flags().StringVar(&until, "until", "", "Last day of a multi-day absence (YYYY-MM-DD)")
	return cmd
}

func (c *cli) confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <notificationId>",
		Short: "Confirm the proposed substitute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			n, err := a.Substitution.Confirm(c.ctx, args[0], cliActor)
			if err != nil {
				return err
			}
			printNotifications(c.out, []models.ReplacementNotification{*n})
			return nil
		},
	}
}

func (c *cli) rejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <notificationId>",
		Short: "Reject the proposed substitute and search for another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			n, err := a.Substitution.Reject(c.ctx, args[0], cliActor)
			if err != nil {
				return err
			}
			printNotifications(c.out, []models.ReplacementNotification{*n})
			return nil
		},
	}
}

func (c *cli) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <slotId>",
		Short: "Show who would cover a schedule slot without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			preview, err := a.Substitution.FindForSlot(c.ctx, args[0])
			if err != nil {
				return err
			}
			printPreview(c.out, preview)
			return nil
		},
	}
}

func (c *cli) tokenCmd() *cobra.Command {
	var userID, role, email, name string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := service.NewAuthService(c.logger, service.AuthConfig{
				AccessTokenSecret: c.cfg.JWT.Secret,
				AccessTokenExpiry: c.cfg.JWT.Expiration,
				Issuer:            c.cfg.JWT.Issuer,
			})
			token, expiresAt, err := auth.IssueToken(service.TokenSubject{
				UserID:   userID,
				Role:     models.UserRole(role),
				Email:    email,
				FullName: name,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id; the teacher id for TEACHER tokens")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "SUPERADMIN, ADMIN, TEACHER or STUDENT")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&name, "name", "", "Full name claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printNotifications(w io.Writer, notifications []models.ReplacementNotification) {
	if len(notifications) == 0 {
		fmt.Fprintln(w, "No classes scheduled, nothing to cover.")
		return
	}
	assigned := 0
	for _, n := range notifications {
		substitute := "-"
		if n.SubstituteTeacherID != nil {
			substitute = *n.SubstituteTeacherID
			assigned++
		}
		fmt.Fprintf(w, "%s  %s  slot=%s  substitute=%s  %s\n",
			n.ID, n.AbsenceDate.Format("2006-01-02"), n.ScheduleSlotID, substitute, n.Status)
	}
	fmt.Fprintf(w, "\n%d notification(s), %d with a substitute\n", len(notifications), assigned)
}

func printPreview(w io.Writer, preview *dto.SlotSubstitutePreview) {
	slot := preview.Slot
	fmt.Fprintf(w, "Slot %s: day %d %s-%s course %s teacher %s\n",
		slot.ID, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.CourseID, slot.TeacherID)
	if preview.Substitute == nil {
		fmt.Fprintln(w, "No substitute available.")
	} else {
		fmt.Fprintf(w, "Substitute: %s (%s)\n", preview.Substitute.FullName, preview.Substitute.ID)
	}
	if len(preview.Candidates) > 1 {
		fmt.Fprintln(w, "Other free teachers:")
		for _, t := range preview.Candidates[1:] {
			fmt.Fprintf(w, "  %s (%s)\n", t.FullName, t.ID)
		}
	}
}
