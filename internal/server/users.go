package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
	storerrors "github.com/nkruglova/bookstand/internal/storage/errors"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	UserID      string `json:"userId"`
	Location    string `json:"location"`
	Age         string `json:"age"`
	Work        string `json:"work"`
	DOB         string `json:"dob"`
	Description string `json:"description"`
}

func (s *Server) CreateUser(ctx *gin.Context) {
	log := logger.Get()
	var req createUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if err := s.valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	uid, err := s.Storage.SaveUser(models.User{
		Email:    req.Email,
		Pass:     req.Password,
		Username: req.Username,
	})
	if err != nil {
		if errors.Is(err, storerrors.ErrUserExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to create user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"userId": uid})
}

func (s *Server) Login(ctx *gin.Context) {
	log := logger.Get()
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	uid, err := s.Storage.ValidUser(req.Username, req.Password)
	if err != nil {
		// неизвестный логин и неверный пароль отвечают одинаково
		if errors.Is(err, storerrors.ErrUserNotFound) || errors.Is(err, storerrors.ErrInvalidPassword) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
			return
		}
		log.Error().Err(err).Msg("failed to login")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"userId": uid})
}

func (s *Server) UserData(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := s.Storage.GetUser(id)
	if err != nil {
		if errors.Is(err, storerrors.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user data"})
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (s *Server) UploadProfile(ctx *gin.Context) {
	log := logger.Get()
	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if _, err := primitive.ObjectIDFromHex(req.UserID); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	err := s.Storage.UpdateProfile(req.UserID, models.Profile{
		Location:    req.Location,
		Age:         req.Age,
		Work:        req.Work,
		DOB:         req.DOB,
		Description: req.Description,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update profile")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
}

// обновляет произвольные поля профиля; username и email не перезаписываются
func (s *Server) UpdateUserProfile(ctx *gin.Context) {
	log := logger.Get()
	var fields models.Document
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	uid, _ := fields["userId"].(string)
	if _, err := primitive.ObjectIDFromHex(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	// идентификатор и учетные поля в запись не попадают
	for _, f := range []string{"userId", "_id", "username", "email", "password"} {
		delete(fields, f)
	}
	err := s.Storage.UpdateUserFields(uid, fields)
	if err != nil {
		if errors.Is(err, storerrors.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to update user profile")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user profile"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "user profile updated successfully"})
}

func (s *Server) CheckUsername(ctx *gin.Context) {
	log := logger.Get()
	var req struct {
		Username string `json:"username"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	exists, err := s.Storage.UsernameExists(req.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to check username")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check username"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *Server) CheckEmail(ctx *gin.Context) {
	log := logger.Get()
	var req struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	exists, err := s.Storage.EmailExists(req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check email"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exists": exists})
}
