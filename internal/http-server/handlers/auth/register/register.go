package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"seatwise/internal/config"
	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user organizer"`
}

type UserPayload struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type RegisterResponse struct {
	response.Response
	User  UserPayload `json:"user"`
	Token string      `json:"access_token"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserSaver
type UserSaver interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, role models.Role) (*models.User, error)
}

// New registers a user. Self-registration may pick user or organizer;
// admin accounts are only granted through the admin role endpoint.
func New(log *slog.Logger, saver UserSaver, authCfg config.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.register.New"

		log = log.With(slog.String("op", op))

		var req RegisterRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		if req.Role == "" {
			req.Role = string(models.RoleUser)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), authCfg.BcryptCost)
		if err != nil {
			log.Error("failed to hash password", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
			return
		}

		user, err := saver.CreateUser(r.Context(), req.Name, req.Email, string(hash), models.Role(req.Role))
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				log.Info("email already registered", slog.String("email", req.Email))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeDuplicateEmail, "email already registered"))
				return
			}

			log.Error("failed to create user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
			return
		}

		token, err := auth.NewToken(authCfg.Secret, user, authCfg.TokenTTL)
		if err != nil {
			log.Error("failed to sign token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
			return
		}

		log.Info("user registered", slog.Int64("id", user.ID), slog.String("role", string(user.Role)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, RegisterResponse{
			Response: response.OK(),
			User: UserPayload{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
			},
			Token: token,
		})
	}
}
