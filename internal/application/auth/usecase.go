package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
	"github.com/jhoicas/StockTrack-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro y login.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// ValidatePassword aplica la política de complejidad: mínimo 8 caracteres,
// mayúscula, minúscula, dígito y carácter especial. Devuelve el mensaje del
// primer requisito incumplido, o "" si la contraseña es válida.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "La contraseña debe tener al menos 8 caracteres."
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return "La contraseña debe contener al menos una letra mayúscula."
	case !hasLower:
		return "La contraseña debe contener al menos una letra minúscula."
	case !hasDigit:
		return "La contraseña debe contener al menos un número."
	case !hasSpecial:
		return "La contraseña debe contener al menos un carácter especial."
	}
	return ""
}

// Register crea la cuenta del tenant: valida la política de contraseña,
// hashea con bcrypt y emite un token de verificación con vigencia de 24h.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrInvalidInput
	}
	if msg := ValidatePassword(in.Password); msg != "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expiresAt := now.Add(24 * time.Hour)
	user := &entity.User{
		ID:                         uuid.New().String(),
		Email:                      in.Email,
		PasswordHash:               string(hash),
		Role:                       entity.RoleAdminStore,
		Status:                     "active",
		VerificationToken:          uuid.New().String(),
		VerificationTokenExpiresAt: &expiresAt,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
