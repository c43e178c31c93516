package contact

import (
	"context"
	"log/slog"
	"net/http"

	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
)

type Notifier interface {
	SendContact(ctx context.Context, req dto.ContactRequest) error
}

type ContactService struct {
	notifier Notifier
}

func NewContactService(notifier Notifier) *ContactService {
	return &ContactService{notifier: notifier}
}

func (s *ContactService) ContactPage(ctx *gin.Context) {
	utilities.Render(ctx, http.StatusOK, "contact.html", gin.H{"MsgSent": false})
}

func (s *ContactService) SendMessage(ctx *gin.Context) {
	var request dto.ContactRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding contact form", "error", err)
	}

	if err := s.notifier.SendContact(ctx.Request.Context(), request); err != nil {
		slog.Error("sending contact message", "from", request.Email, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Your message could not be sent.")
		return
	}

	slog.Info("contact message sent", "from", request.Email)
	utilities.Render(ctx, http.StatusOK, "contact.html", gin.H{"MsgSent": true})
}
