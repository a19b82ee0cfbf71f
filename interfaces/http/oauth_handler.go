package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/configuration"
	"artist-hub/infrastructure/logger"
	"artist-hub/infrastructure/statetoken"
	"artist-hub/usecase"
)

type IOAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
}

// AuthURLBuilder renders the platform consent URL for a state token.
type AuthURLBuilder func(state string) string

type oauthHandler struct {
	codec       *statetoken.Codec
	accountRepo repository.IIntegrationAccount
	exchangers  map[model.Platform]repository.ITokenExchanger
	authURLs    map[model.Platform]AuthURLBuilder
	invalidator usecase.ICatalogInvalidator
}

func NewOAuthHandler(
	codec *statetoken.Codec,
	accountRepo repository.IIntegrationAccount,
	exchangers map[model.Platform]repository.ITokenExchanger,
	authURLs map[model.Platform]AuthURLBuilder,
	invalidator usecase.ICatalogInvalidator,
) IOAuthHandler {
	return &oauthHandler{
		codec:       codec,
		accountRepo: accountRepo,
		exchangers:  exchangers,
		authURLs:    authURLs,
		invalidator: invalidator,
	}
}

// GetAuthURL issues a state token and returns the consent page URL.
func (h *oauthHandler) GetAuthURL(c *gin.Context) {
	platform := model.Platform(c.Param("platform"))
	if !platform.Known() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown platform"})
		return
	}
	build, ok := h.authURLs[platform]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": string(platform) + " oauth not configured"})
		return
	}
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}

	state, err := h.codec.Encode(statetoken.Payload{
		ResourceID: ownerID,
		OwnerID:    ownerID,
		IssuedAt:   time.Now(),
		ReturnURL:  c.Query("return_url"),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("encoding state token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state encoding failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": build(state), "state": state})
}

// Callback handles everything a platform throws at the redirect URI: webhook
// verification handshakes, user denials and the actual code exchange.
func (h *oauthHandler) Callback(c *gin.Context) {
	platform := model.Platform(c.Param("platform"))
	lg := logger.GetLogger().WithField("platform", platform)

	// Webhook verification is checked before anything else; those requests
	// carry no code or state.
	if c.Query("hub.mode") == "subscribe" {
		verifyToken := h.verifyToken(platform)
		if verifyToken != "" && c.Query("hub.verify_token") == verifyToken {
			c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(c.Query("hub.challenge")))
			return
		}
		c.Status(http.StatusForbidden)
		return
	}

	if !platform.Known() {
		h.redirectError(c, "", "not_found")
		return
	}

	// A denial arrives as an error parameter; nothing is exchanged.
	if c.Query("error") != "" {
		lg.WithField("error", c.Query("error")).Info("user denied authorization")
		h.redirectError(c, "", string(platform)+"_denied")
		return
	}

	payload, err := h.codec.Decode(c.Query("state"))
	if err != nil {
		h.redirectError(c, "", "invalid_state")
		return
	}
	if err := h.codec.Validate(payload); err != nil {
		h.redirectError(c, payload.ReturnURL, "expired")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, payload.ReturnURL, "missing_params")
		return
	}

	exchanger, ok := h.exchangers[platform]
	if !ok {
		h.redirectError(c, payload.ReturnURL, "not_found")
		return
	}

	ctx := c.Request.Context()
	short, err := exchanger.ExchangeCode(ctx, code)
	if err != nil {
		h.redirectError(c, payload.ReturnURL, "token_exchange_failed")
		return
	}
	long, err := exchanger.ExchangeForLongLived(ctx, short)
	if err != nil {
		h.redirectError(c, payload.ReturnURL, "long_token_failed")
		return
	}
	profile, err := exchanger.FetchProfile(ctx, long.AccessToken)
	if err != nil {
		h.redirectError(c, payload.ReturnURL, "user_fetch_failed")
		return
	}

	account := &model.IntegrationAccount{
		OwnerID:             payload.OwnerID,
		Platform:            platform,
		ExternalAccountID:   profile.ExternalID,
		ExternalDisplayName: profile.DisplayName,
		AccessToken:         long.AccessToken,
		RefreshToken:        long.RefreshToken,
	}
	if long.ExpiresInSeconds > 0 {
		expiry := time.Now().Add(time.Duration(long.ExpiresInSeconds) * time.Second)
		account.TokenExpiry = &expiry
	}
	if err := h.accountRepo.Upsert(ctx, account); err != nil {
		lg.WithField("error", err).Error("persisting integration account failed")
		h.redirectError(c, payload.ReturnURL, "callback_failed")
		return
	}
	if h.invalidator != nil {
		if err := h.invalidator.InvalidateOwner(ctx, payload.OwnerID); err != nil {
			lg.WithField("error", err).Warn("cache invalidation failed")
		}
	}

	lg.WithField("owner_id", payload.OwnerID).Info("platform connected")
	h.redirect(c, payload.ReturnURL, "success", string(platform)+"_connected")
}

// Disconnect removes the stored connection. Synced media items stay.
func (h *oauthHandler) Disconnect(c *gin.Context) {
	platform := model.Platform(c.Param("platform"))
	if !platform.Known() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown platform"})
		return
	}
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}

	if err := h.accountRepo.Delete(c.Request.Context(), ownerID, platform); err != nil {
		if errors.Is(err, model.ErrNotConnected) {
			c.JSON(http.StatusNotFound, gin.H{"error": string(platform) + " not connected"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("deleting integration account failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disconnect failed"})
		return
	}
	if h.invalidator != nil {
		if err := h.invalidator.InvalidateOwner(c.Request.Context(), ownerID); err != nil {
			logger.GetLogger().WithField("error", err).Warn("cache invalidation failed")
		}
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: string(platform) + " disconnected"})
}

func (h *oauthHandler) verifyToken(platform model.Platform) string {
	switch platform {
	case model.PlatformYouTube:
		return configuration.C.OAuth.YouTube.VerifyToken
	case model.PlatformInstagram:
		return configuration.C.OAuth.Instagram.VerifyToken
	}
	return ""
}

func (h *oauthHandler) redirectError(c *gin.Context, returnURL, code string) {
	h.redirect(c, returnURL, "error", code)
}

func (h *oauthHandler) redirect(c *gin.Context, returnURL, key, value string) {
	target := returnURL
	if target == "" {
		target = configuration.C.App.DefaultReturnURL
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, target+sep+key+"="+value)
}
