package utilities

import (
	"time"

	"module/blogwithusers/internal/models"

	"github.com/gin-gonic/gin"
)

type GenericResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Response(ctx *gin.Context, statusCode int, success bool, data interface{}, message string) {
	response := GenericResponse{
		Success: success,
		Data:    data,
		Message: message,
	}

	ctx.JSON(statusCode, response)
}

// UserKey is the gin context key holding the signed-in *models.User.
const UserKey = "user"

func CurrentUser(ctx *gin.Context) *models.User {
	value, ok := ctx.Get(UserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// Render executes an HTML template with the data every page layout needs.
func Render(ctx *gin.Context, statusCode int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := CurrentUser(ctx)
	data["CurrentUser"] = user
	data["LoggedIn"] = user != nil
	data["IsAdmin"] = user != nil && user.IsAdmin()
	data["Flashes"] = PopFlashes(ctx)
	data["Year"] = time.Now().Year()

	ctx.HTML(statusCode, name, data)
}

func RenderError(ctx *gin.Context, statusCode int, message string) {
	Render(ctx, statusCode, "error.html", gin.H{
		"Status":  statusCode,
		"Message": message,
	})
	ctx.Abort()
}
