package utilities

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookie = "flash"
	pendingKey  = "flash.pending"
	consumedKey = "flash.consumed"
)

// AddFlash queues a one-shot message for the next rendered page.
func AddFlash(ctx *gin.Context, message string) {
	pending := append(append([]string(nil), pendingFlashes(ctx)...), message)
	ctx.Set(pendingKey, pending)

	raw, err := json.Marshal(append(readFlashCookie(ctx), pending...))
	if err != nil {
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(FlashCookie, base64.RawURLEncoding.EncodeToString(raw), 0, "/", "", false, true)
}

// PopFlashes returns every queued message and clears the cookie.
func PopFlashes(ctx *gin.Context) []string {
	flashes := append(readFlashCookie(ctx), pendingFlashes(ctx)...)
	ctx.Set(consumedKey, true)
	ctx.Set(pendingKey, []string(nil))
	if len(flashes) == 0 {
		return nil
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	return flashes
}

func pendingFlashes(ctx *gin.Context) []string {
	value, ok := ctx.Get(pendingKey)
	if !ok {
		return nil
	}
	flashes, _ := value.([]string)
	return flashes
}

func readFlashCookie(ctx *gin.Context) []string {
	if ctx.GetBool(consumedKey) {
		return nil
	}
	value, err := ctx.Cookie(FlashCookie)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []string
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
