package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/internal/application/crud"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/jwt"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// activityEntity nombre con el que auth aparece en el log de actividad.
const activityEntity = "User"

// JWTConfig configuración para generación de tokens. Secret vacío = login sin token.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Option ajusta el caso de uso al construirlo.
type Option func(*AuthUseCase)

// WithHashCost cambia el costo bcrypt (las pruebas usan bcrypt.MinCost).
func WithHashCost(cost int) Option {
	return func(uc *AuthUseCase) { uc.hashCost = cost }
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	users    repository.DocumentCollection
	schema   entity.Schema
	notifier ports.Notifier
	activity ports.ActivityRecorder
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
	hashCost int
}

// NewAuthUseCase construye el caso de uso de auth sobre la colección users.
func NewAuthUseCase(
	store repository.DocumentStore,
	notifier ports.Notifier,
	recorder ports.ActivityRecorder,
	jwtCfg JWTConfig,
	log *logger.Logger,
	opts ...Option,
) *AuthUseCase {
	schema := entity.UserSchema()
	uc := &AuthUseCase{
		users:    store.Collection(schema.Collection),
		schema:   schema,
		notifier: notifier,
		activity: recorder,
		jwtCfg:   jwtCfg,
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Register crea un usuario: hashea el password con bcrypt y persiste.
// Devuelve *domain.ConflictError si el username o el email ya existen.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx, span := obs.Start(ctx, "auth.register")
	defer span.End()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	input := map[string]any{"username": username, "password": in.Password}
	if email := strings.TrimSpace(in.Email); email != "" {
		input["email"] = email
	}
	doc, err := uc.schema.Build(input, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := crud.HashSecrets(uc.schema, doc, uc.hashCost); err != nil {
		return nil, err
	}
	if err := crud.CheckUnique(ctx, uc.users, uc.schema, doc, ""); err != nil {
		return nil, err
	}
	if _, err := uc.users.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	ctx = activity.WithActor(ctx, username)
	uc.notifier.Notify(ctx, "New Registration", username+" registered successfully", entity.NotificationInfo)
	uc.activity.Record(ctx, entity.ActionRegister, activityEntity, "New user account created")
	return &dto.RegisterResponse{Message: "Registration successful!"}, nil
}

// Login busca por username y luego por email, compara el hash y devuelve el perfil.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := obs.Start(ctx, "auth.login")
	defer span.End()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	login := in.Login()
	if login == "" {
		return nil, domain.NewValidationError("username", "requerido")
	}
	user, err := uc.findUser(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		// Hash corrupto o no bcrypt: se trata igual que un password incorrecto.
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("hash de password inválido")
		return nil, domain.ErrInvalidCredentials
	}

	resp := &dto.LoginResponse{
		Message: "Login successful",
		User:    toUserProfile(user),
	}
	if uc.jwtCfg.Secret != "" {
		token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
		resp.Token = token
	}

	uc.activity.Record(activity.WithActor(ctx, user.Username), entity.ActionLogin, activityEntity, "User logged in")
	return resp, nil
}

func (uc *AuthUseCase) findUser(ctx context.Context, login string) (*entity.User, error) {
	doc, err := uc.users.FindOne(ctx, repository.Filter{"username": login})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if doc == nil {
		doc, err = uc.users.FindOne(ctx, repository.Filter{"email": login})
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
	}
	if doc == nil {
		return nil, nil
	}
	var u entity.User
	if err := entity.Decode(doc, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func toUserProfile(u *entity.User) dto.UserProfile {
	return dto.UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
