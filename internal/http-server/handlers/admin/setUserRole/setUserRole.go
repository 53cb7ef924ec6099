package setUserRole

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user organizer admin"`
}

type RoleResponse struct {
	response.Response
	User *models.User `json:"user"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RoleSetter
type RoleSetter interface {
	SetUserRole(ctx context.Context, userID int64, role models.Role) (*models.User, error)
}

func New(log *slog.Logger, setter RoleSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.setUserRole.New"

		log = log.With(slog.String("op", op))

		userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid user id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid user id format"))
			return
		}

		var req RoleRequest

		err = render.DecodeJSON(r.Body, &req)
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

		user, err := setter.SetUserRole(r.Context(), userID, models.Role(req.Role))
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Info("user not found", slog.Int64("user_id", userID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "user not found"))
				return
			}

			log.Error("failed to set user role", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to set user role"))
			return
		}

		log.Info("user role updated", slog.Int64("user_id", userID), slog.String("role", req.Role))

		render.JSON(w, r, RoleResponse{
			Response: response.OK(),
			User:     user,
		})
	}
}
