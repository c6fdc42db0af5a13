package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"renthub/internal/domain"
	"renthub/internal/models"
)

type AdminService struct {
	repo   domain.Repository
	cache  domain.ListingCache
	logger *zerolog.Logger
}

func NewAdminService(repo domain.Repository, cache domain.ListingCache, logger *zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, cache: cache, logger: logger}
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.repo.GetAdminStats(ctx)
}

func (s *AdminService) Users(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *AdminService) Bookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.GetAllBookings(ctx)
}

func (s *AdminService) Properties(ctx context.Context) ([]*models.Property, error) {
	filter := models.PropertyFilter{IncludeUnavailable: true}
	filter.Normalize()
	props, _, err := s.repo.ListProperties(ctx, filter)
	return props, err
}

// UpdateUserRole changes a user's role. Admins cannot change their own role,
// that would allow locking the last admin out.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor *models.User, userID int64, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if userID == actor.ID {
		return nil, fmt.Errorf("%w: you cannot change your own role", ErrValidation)
	}
	if err := s.repo.UpdateUserRole(ctx, userID, role); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", userID).Str("role", role).Int64("admin_id", actor.ID).Msg("User role updated")
	return s.repo.GetUserByID(ctx, userID)
}

// DeleteUser removes a user and, via cascades, their properties, bookings
// and ratings. Self-deletion is rejected.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, userID int64) error {
	if userID == actor.ID {
		return fmt.Errorf("%w: you cannot delete your own account", ErrValidation)
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	// Listings owned by the deleted user are gone with the cascade.
	s.cache.Invalidate(ctx)
	s.logger.Info().Int64("user_id", userID).Int64("admin_id", actor.ID).Msg("User deleted")
	return nil
}

// ExportBookings renders every booking into an xlsx workbook and returns
// the file contents with a timestamped file name.
func (s *AdminService) ExportBookings(ctx context.Context) ([]byte, string, error) {
	bookings, err := s.repo.GetAllBookings(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Property", "Location", "Rent", "Tenant", "Tenant Email",
		"Status", "Move-in Date", "Duration (months)", "Requested", "Responded", "Owner Notes",
	}
	if err := writeHeaderRow(f, sheetName, headers); err != nil {
		return nil, "", err
	}

	for i, b := range bookings {
		row := i + 2
		moveIn := ""
		if b.MoveInDate != nil {
			moveIn = b.MoveInDate.Format("02.01.2006")
		}
		responded := ""
		if b.ResponseTime != nil {
			responded = b.ResponseTime.Format("02.01.2006 15:04")
		}
		values := []interface{}{
			b.ID, b.PropertyTitle, b.PropertyLocation, b.PropertyRent,
			b.TenantName, b.TenantEmail, b.Status, moveIn, b.DurationMonths,
			b.RequestTime.Format("02.01.2006 15:04"), responded, b.OwnerNotes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		styleID, err := bookingRowStyle(f, b.Status)
		if err == nil {
			statusCell, _ := excelize.CoordinatesToCellName(7, row)
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "D", 10)
	_ = f.SetColWidth(sheetName, "E", "F", 22)
	_ = f.SetColWidth(sheetName, "G", "L", 18)

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error saving file: %w", err)
	}

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	s.logger.Info().Str("file_name", fileName).Int("bookings", len(bookings)).Msg("Bookings export created")
	return buf.Bytes(), fileName, nil
}

// ExportUsers renders the user list into an xlsx workbook.
func (s *AdminService) ExportUsers(ctx context.Context) ([]byte, string, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("error getting users: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Email", "Name", "Phone", "Role", "Registered"}
	if err := writeHeaderRow(f, sheetName, headers); err != nil {
		return nil, "", err
	}

	for i, user := range users {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), user.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), user.Email)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), user.Name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), user.Phone)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), user.Role)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), user.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 28)
	_ = f.SetColWidth(sheetName, "C", "C", 22)
	_ = f.SetColWidth(sheetName, "D", "E", 15)
	_ = f.SetColWidth(sheetName, "F", "F", 20)

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error saving file: %w", err)
	}

	fileName := fmt.Sprintf("users_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	s.logger.Info().Str("file_name", fileName).Int("users", len(users)).Msg("Users export created")
	return buf.Bytes(), fileName, nil
}

func writeHeaderRow(f *excelize.File, sheetName string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
	return nil
}

func bookingRowStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusRejected:
		color = "#FFC7CE"
	default:
		color = "#FFEB9C"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}
