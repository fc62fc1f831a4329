// Package seed inserts the default admin, subjects, hostels and chat room.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Users is the user storage the seeder needs
type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Subjects is the subject catalog storage
type Subjects interface {
	CreateSubject(ctx context.Context, subject *models.Subject) error
}

// Hostels is the hostel storage
type Hostels interface {
	Create(ctx context.Context, hostel *models.Hostel) error
}

// Rooms is the chat room storage
type Rooms interface {
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
}

// Stores bundles the repositories touched by the seeder
type Stores struct {
	Users    Users
	Subjects Subjects
	Hostels  Hostels
	Rooms    Rooms
}

// Admin holds the credentials of the bootstrap administrator
type Admin struct {
	Email    string
	Password string
}

// DefaultAdmin is used when no credentials are configured.
var DefaultAdmin = Admin{Email: "admin@campusbeacon.edu", Password: "Admin12345"}

var defaultSubjects = []models.Subject{
	{Code: "CS101", Name: "Introduction to Programming", Credits: 4},
	{Code: "CS201", Name: "Data Structures", Credits: 4},
	{Code: "MA101", Name: "Engineering Mathematics I", Credits: 4},
	{Code: "PH101", Name: "Engineering Physics", Credits: 3},
	{Code: "EE101", Name: "Basic Electrical Engineering", Credits: 3},
}

var defaultHostels = []models.Hostel{
	{Name: "Aryabhatta Hall", Type: models.HostelTypeBoys, WardenName: "Dr. R. Menon", Capacity: 400},
	{Name: "Kalpana Chawla Hall", Type: models.HostelTypeGirls, WardenName: "Dr. S. Iyer", Capacity: 350},
}

// GeneralRoom is the chat room every campus member lands in.
const GeneralRoom = "general"

// Run creates the default data. Rows that already exist are skipped, so it
// is safe to run on every start. Failures are collected and returned together.
func Run(ctx context.Context, stores Stores, admin Admin, lgr zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		admin = DefaultAdmin
	}
	var finalErr error

	adminUser, err := ensureAdmin(ctx, stores.Users, admin, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	created := 0
	for _, s := range defaultSubjects {
		subject := s
		err := stores.Subjects.CreateSubject(ctx, &subject)
		switch {
		case err == nil:
			created++
		case !errors.Is(err, apperrors.ErrSubjectAlreadyExists):
			lgr.Error().Err(err).Str("code", subject.Code).Msg("Error creating subject")
			finalErr = errors.Join(finalErr, err)
		}
	}
	lgr.Info().Int("created", created).Msg("Default subjects checked")

	created = 0
	for _, h := range defaultHostels {
		hostel := h
		err := stores.Hostels.Create(ctx, &hostel)
		switch {
		case err == nil:
			created++
		case !errors.Is(err, apperrors.ErrHostelAlreadyExists):
			lgr.Error().Err(err).Str("name", hostel.Name).Msg("Error creating hostel")
			finalErr = errors.Join(finalErr, err)
		}
	}
	lgr.Info().Int("created", created).Msg("Default hostels checked")

	if adminUser != nil {
		room := &models.ChatRoom{Name: GeneralRoom, Description: "Campus wide chat", CreatedBy: adminUser.ID}
		if err := stores.Rooms.CreateRoom(ctx, room); err != nil && !errors.Is(err, apperrors.ErrRoomAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating general chat room")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAdmin(ctx context.Context, users Users, admin Admin, lgr zerolog.Logger) (*models.User, error) {
	existing, err := users.GetByEmail(ctx, admin.Email)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	user := &models.User{
		Name:     "System Administrator",
		Email:    admin.Email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return user, nil
}
