package services

import (
	"context"
	"strings"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages admin and delivery-staff accounts
type UserService struct {
	userRepo UserRepo
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateStaffInput is the payload for registering a delivery staff member
type CreateStaffInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required"`
}

// CreateDeliveryStaff registers a new delivery staff account
func (s *UserService) CreateDeliveryStaff(ctx context.Context, input *CreateStaffInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		ID:       uuid.New(),
		FullName: input.FullName,
		Email:    email,
		Password: string(hash),
		Phone:    input.Phone,
		Role:     models.RoleDelivery,
		Status:   models.StaffActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Msg("Delivery staff account created")

	return user, nil
}

// Get loads one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListDeliveryStaff returns all delivery staff accounts
func (s *UserService) ListDeliveryStaff(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleDelivery)
}

// UpdateStaffInput patches a staff profile
type UpdateStaffInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// UpdateStaff patches a delivery staff profile
func (s *UserService) UpdateStaff(ctx context.Context, id uuid.UUID, input *UpdateStaffInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	return user, nil
}

// SetStaffStatus toggles a staff member between active and inactive. The
// busy state is owned by order assignment and cannot be set here.
func (s *UserService) SetStaffStatus(ctx context.Context, id uuid.UUID, status string) (*models.User, error) {
	if status != models.StaffActive && status != models.StaffInactive {
		return nil, errors.Wrapf(ErrValidation, "status %q must be %s or %s", status, models.StaffActive, models.StaffInactive)
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.SetStatus(ctx, id, status); err != nil {
		return nil, errors.Wrap(err, "failed to update staff status")
	}

	log.Info().
		Str("user_id", id.String()).
		Str("status", status).
		Msg("Staff status updated")

	return s.userRepo.GetByID(ctx, id)
}

// DeleteStaff removes a delivery staff account
func (s *UserService) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Role != models.RoleDelivery {
		return errors.Wrap(ErrValidation, "only delivery staff accounts can be deleted")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	log.Info().Str("user_id", id.String()).Msg("Delivery staff account deleted")
	return nil
}

// CountActiveDelivery counts delivery staff currently available for
// assignment
func (s *UserService) CountActiveDelivery(ctx context.Context) (int64, error) {
	return s.userRepo.CountActiveDelivery(ctx)
}
