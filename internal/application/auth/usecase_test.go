package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/StockTrack-api/internal/application/auth"
	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/pkg/jwt"
)

const (
	testEmail    = "tienda@ejemplo.com"
	testPassword = "Segura123!"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func buildUseCase() (*auth.UseCase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, auth.JWTConfig{
		Secret:     "secreto-de-pruebas",
		ExpMinutes: 60,
		Issuer:     "stocktrack-test",
	})
	return uc, repo
}

func register(t *testing.T, uc *auth.UseCase) *dto.UserResponse {
	t.Helper()
	user, err := uc.Register(dto.RegisterRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return user
}

// ─────────────────────────────────────────────
// ValidatePassword
// ─────────────────────────────────────────────

func TestValidatePassword(t *testing.T) {
	casos := []struct {
		nombre   string
		password string
		valida   bool
	}{
		{"válida", "Segura123!", true},
		{"muy corta", "Ab1!", false},
		{"sin mayúscula", "segura123!", false},
		{"sin minúscula", "SEGURA123!", false},
		{"sin número", "SeguraAbc!", false},
		{"sin especial", "Segura1234", false},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			msg := auth.ValidatePassword(caso.password)
			if caso.valida {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestRegister_CreaUsuarioAdminStore(t *testing.T) {
	uc, repo := buildUseCase()

	user := register(t, uc)
	assert.Equal(t, testEmail, user.Email)
	assert.Equal(t, entity.RoleAdminStore, user.Role)
	assert.Equal(t, "active", user.Status)
	assert.NotEmpty(t, user.ID)

	stored := repo.byEmail[testEmail]
	require.NotNil(t, stored)
	assert.NotEqual(t, testPassword, stored.PasswordHash, "la contraseña nunca se guarda en claro")
	assert.NotEmpty(t, stored.VerificationToken)
	require.NotNil(t, stored.VerificationTokenExpiresAt)
}

func TestRegister_PasswordsNoCoinciden(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Register(dto.RegisterRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: "Otra123!x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_PasswordDebil(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Register(dto.RegisterRequest{
		Email:           testEmail,
		Password:        "debil",
		ConfirmPassword: "debil",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := buildUseCase()
	register(t, uc)

	_, err := uc.Register(dto.RegisterRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestLogin_Exitoso_EmiteJWTConRol(t *testing.T) {
	uc, _ := buildUseCase()
	registered := register(t, uc)

	resp, err := uc.Login(dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	userID, role, err := jwt.Parse("secreto-de-pruebas", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, entity.RoleAdminStore, role)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@ejemplo.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := buildUseCase()
	register(t, uc)

	_, err := uc.Login(dto.LoginRequest{Email: testEmail, Password: "Incorrecta1!"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc, repo := buildUseCase()
	register(t, uc)
	repo.byEmail[testEmail].Status = "pending_verification"

	_, err := uc.Login(dto.LoginRequest{Email: testEmail, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
