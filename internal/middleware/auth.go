package middleware

import (
	"log/slog"
	"net/http"

	"module/blogwithusers/internal/repo"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
)

type MiddlewareService struct {
	userRepo  *repo.UserRepo
	secretKey string
}

func NewMiddlewareService(userRepo *repo.UserRepo, secretKey string) *MiddlewareService {
	return &MiddlewareService{userRepo: userRepo, secretKey: secretKey}
}

// SessionMiddleware resolves the session cookie to a user. A missing, invalid
// or stale session leaves the request anonymous.
func (m *MiddlewareService) SessionMiddleware(ctx *gin.Context) {
	token, err := ctx.Cookie(utilities.SessionCookie)
	if err != nil || token == "" {
		ctx.Next()
		return
	}

	userId, err := utilities.ParseSession(m.secretKey, token)
	if err != nil {
		slog.Debug("discarding invalid session", "error", err)
		utilities.EndSession(ctx)
		ctx.Next()
		return
	}

	user, err := m.userRepo.GetUserById(userId)
	if err != nil {
		slog.Debug("session user not found", "user_id", userId, "error", err)
		utilities.EndSession(ctx)
		ctx.Next()
		return
	}

	ctx.Set(utilities.UserKey, user)
	ctx.Next()
}

func (m *MiddlewareService) RequireLogin(ctx *gin.Context) {
	if utilities.CurrentUser(ctx) == nil {
		utilities.AddFlash(ctx, "Please log in to access this page.")
		ctx.Redirect(http.StatusFound, "/login")
		ctx.Abort()
		return
	}
	ctx.Next()
}

// RequireAdmin must run after RequireLogin.
func (m *MiddlewareService) RequireAdmin(ctx *gin.Context) {
	user := utilities.CurrentUser(ctx)
	if user == nil || !user.IsAdmin() {
		utilities.RenderError(ctx, http.StatusForbidden, "You do not have permission to do that.")
		return
	}
	ctx.Next()
}
