package service

import (
	"context"
	"errors"
	"strings"

	"twyst/internal/catalog"
	"twyst/internal/domain"
	"twyst/internal/repository"
)

// maxTryOnPhotos сколько фотографий примерки хранится в профиле
const maxTryOnPhotos = 5

// UserService мок-аутентификация и профиль. Никакой безопасности нет:
// логин по email создаёт профиль в памяти, логаут его уничтожает.
type UserService struct {
	catalog *catalog.Catalog
	users   repository.UserRepository
	carts   repository.CartRepository
}

func NewUserService(cat *catalog.Catalog, users repository.UserRepository, carts repository.CartRepository) *UserService {
	return &UserService{catalog: cat, users: users, carts: carts}
}

// Login возвращает существующий профиль или создаёт демонстрационный
func (s *UserService) Login(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	if u, err := s.users.GetByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	// demo profile seeded with enough points for the Gold tier
	u := domain.User{
		Email:       email,
		Name:        name,
		Points:      2250,
		Favorites:   []int64{},
		TryOnPhotos: []string{},
	}
	u.Tier = s.catalog.TierFor(u.Points)
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout уничтожает профиль и корзину; состояние между сессиями не живёт
func (s *UserService) Logout(ctx context.Context, email string) error {
	if email == "" {
		return ErrInvalidInput
	}
	if err := s.carts.Clear(ctx, email); err != nil {
		return err
	}
	return s.users.Delete(ctx, email)
}

// Get возвращает профиль
func (s *UserService) Get(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.users.GetByEmail(ctx, email)
}

// ProfileUpdate изменяемые поля профиля; пустые значения не трогают поле
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
	Avatar  string
}

// UpdateProfile редактирует профиль
func (s *UserService) UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (*domain.User, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Address != "" {
		u.Address = upd.Address
	}
	if upd.Avatar != "" {
		u.Avatar = upd.Avatar
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ToggleFavorite добавляет товар в избранное или убирает из него
func (s *UserService) ToggleFavorite(ctx context.Context, email string, productID int64) (*domain.User, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.catalog.Product(productID); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.IsFavorite(productID) {
		kept := u.Favorites[:0]
		for _, id := range u.Favorites {
			if id != productID {
				kept = append(kept, id)
			}
		}
		u.Favorites = kept
	} else {
		u.Favorites = append(u.Favorites, productID)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AddTryOnPhoto сохраняет фото для примерки; хранится не более maxTryOnPhotos,
// самое старое вытесняется
func (s *UserService) AddTryOnPhoto(ctx context.Context, email, photo string) (*domain.User, error) {
	if email == "" || photo == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	u.TryOnPhotos = append(u.TryOnPhotos, photo)
	if len(u.TryOnPhotos) > maxTryOnPhotos {
		u.TryOnPhotos = u.TryOnPhotos[len(u.TryOnPhotos)-maxTryOnPhotos:]
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetGoogleLinked включает или выключает флаг привязки Google-аккаунта
func (s *UserService) SetGoogleLinked(ctx context.Context, email string, linked bool) (*domain.User, error) {
	if email == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	u.IsGoogleLinked = linked
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
