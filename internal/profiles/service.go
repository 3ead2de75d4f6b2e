package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/units"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

var (
	ErrInvalidType       = errors.New("invalid profile type")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInvalidUnit       = errors.New("weight_unit must be metric or imperial")
	ErrInvalidGender     = errors.New("gender must be male or female")
	ErrCannotDeleteOwner = errors.New("cannot delete owner profile")
	ErrNotFound          = errors.New("profile not found")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.Storage
}

// NewService создаёт новый сервис
func NewService(st storage.Storage) *Service {
	return &Service{storage: st}
}

// ListProfiles возвращает все профили текущего пользователя
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	userID := userctx.UserIDOrDefault(ctx)

	if err := s.ensureOwnerProfile(ctx, userID); err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		if p.OwnerUserID != userID {
			continue
		}
		dtos = append(dtos, toDTO(p))
	}

	return dtos, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// CreateProfile создаёт новый профиль (только guest)
func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	userID := userctx.UserIDOrDefault(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Type != "guest" {
		return nil, ErrInvalidType
	}

	unit, err := normalizeUnit(req.WeightUnit)
	if err != nil {
		return nil, err
	}
	gender, err := normalizeGender(req.Gender)
	if err != nil {
		return nil, err
	}

	profile := &storage.Profile{
		OwnerUserID: userID,
		Type:        req.Type,
		Name:        strings.TrimSpace(req.Name),
		WeightUnit:  unit,
		Gender:      gender,
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// UpdateProfile обновляет имя и настройки калькулятора
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrEmptyName
	}

	profile, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.WeightUnit != nil {
		unit, err := normalizeUnit(*req.WeightUnit)
		if err != nil {
			return nil, err
		}
		profile.WeightUnit = unit
	}
	if req.Gender != nil {
		gender, err := normalizeGender(*req.Gender)
		if err != nil {
			return nil, err
		}
		profile.Gender = gender
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// DeleteProfile удаляет профиль (только guest)
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	profile, err := s.owned(ctx, id)
	if err != nil {
		return err
	}

	if profile.Type == "owner" {
		return ErrCannotDeleteOwner
	}

	return s.storage.DeleteProfile(ctx, id)
}

// owned loads a profile and hides profiles of other users behind ErrNotFound.
func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return nil, ErrNotFound
	}
	return profile, nil
}

func normalizeUnit(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return string(units.Metric), nil
	}
	system, err := units.ParseSystem(raw)
	if err != nil {
		return "", ErrInvalidUnit
	}
	return string(system), nil
}

func normalizeGender(raw string) (string, error) {
	g := projection.Gender(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case "", projection.Male, projection.Female:
		return string(g), nil
	default:
		return "", ErrInvalidGender
	}
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p storage.Profile) ProfileDTO {
	return ProfileDTO{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Type:        p.Type,
		Name:        p.Name,
		WeightUnit:  p.WeightUnit,
		Gender:      p.Gender,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (s *Service) ensureOwnerProfile(ctx context.Context, userID string) error {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.OwnerUserID == userID && p.Type == "owner" {
			return nil
		}
	}
	profile := &storage.Profile{
		OwnerUserID: userID,
		Type:        "owner",
		Name:        "Me",
		WeightUnit:  string(units.Metric),
	}
	return s.storage.CreateProfile(ctx, profile)
}
