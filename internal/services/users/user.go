package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/models"
	"module/blogwithusers/internal/repo"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgAlreadyRegistered = "You've already signed up with that email, log in instead"
	msgUnknownEmail      = "This email does not exist, please try again"
	msgBadPassword       = "Password incorrect, please try again"
)

type UserService struct {
	userRepo  *repo.UserRepo
	secretKey string
}

func NewUserService(userRepo *repo.UserRepo, secretKey string) *UserService {
	return &UserService{userRepo: userRepo, secretKey: secretKey}
}

func (s *UserService) RegisterPage(ctx *gin.Context) {
	utilities.Render(ctx, http.StatusOK, "register.html", gin.H{"Form": dto.RegisterUserRequest{}})
}

func (s *UserService) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterUserRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding register form", "error", err)
	}
	request.Email = strings.TrimSpace(request.Email)
	request.Name = strings.TrimSpace(request.Name)

	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		request.Password = ""
		utilities.Render(ctx, http.StatusBadRequest, "register.html", gin.H{"Form": request, "Errors": fieldErrs})
		return
	}

	exists, err := s.userRepo.EmailExists(request.Email)
	if err != nil {
		slog.Error("looking up user by email", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to create your account.")
		return
	}
	if exists {
		s.redirectToLogin(ctx)
		return
	}

	hashedPassword, err := utilities.HashPassword(request.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to create your account.")
		return
	}

	newUser := models.User{
		Name:     request.Name,
		Email:    request.Email,
		Password: hashedPassword,
	}
	if err := s.userRepo.CreateUser(&newUser); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.redirectToLogin(ctx)
			return
		}
		slog.Error("creating user", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to create your account.")
		return
	}

	if err := utilities.StartSession(ctx, s.secretKey, newUser.Id); err != nil {
		slog.Error("starting session", "user_id", newUser.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to sign you in.")
		return
	}
	slog.Info("user registered", "user_id", newUser.Id, "role", newUser.Role)
	ctx.Redirect(http.StatusFound, "/")
}

func (s *UserService) redirectToLogin(ctx *gin.Context) {
	utilities.AddFlash(ctx, msgAlreadyRegistered)
	ctx.Redirect(http.StatusFound, "/login")
}

func (s *UserService) LoginPage(ctx *gin.Context) {
	utilities.Render(ctx, http.StatusOK, "login.html", gin.H{"Form": dto.LoginUserRequest{}})
}

func (s *UserService) LoginUser(ctx *gin.Context) {
	var request dto.LoginUserRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding login form", "error", err)
	}
	request.Email = strings.TrimSpace(request.Email)

	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		request.Password = ""
		utilities.Render(ctx, http.StatusBadRequest, "login.html", gin.H{"Form": request, "Errors": fieldErrs})
		return
	}
	form := dto.LoginUserRequest{Email: request.Email}

	user, err := s.userRepo.GetUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.AddFlash(ctx, msgUnknownEmail)
			utilities.Render(ctx, http.StatusUnauthorized, "login.html", gin.H{"Form": form})
			return
		}
		slog.Error("looking up user by email", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to sign you in.")
		return
	}

	if !utilities.CheckPassword(user.Password, request.Password) {
		utilities.AddFlash(ctx, msgBadPassword)
		utilities.Render(ctx, http.StatusUnauthorized, "login.html", gin.H{"Form": form})
		return
	}

	if err := utilities.StartSession(ctx, s.secretKey, user.Id); err != nil {
		slog.Error("starting session", "user_id", user.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to sign you in.")
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

func (s *UserService) LogoutUser(ctx *gin.Context) {
	utilities.EndSession(ctx)
	ctx.Redirect(http.StatusFound, "/")
}
