package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zealess/doj-frontend/internal/audit"
	"github.com/zealess/doj-frontend/internal/bootstrap"
	"github.com/zealess/doj-frontend/internal/gate"
	"github.com/zealess/doj-frontend/internal/identity"
	"github.com/zealess/doj-frontend/internal/profile"
	"github.com/zealess/doj-frontend/internal/session"
	"github.com/zealess/doj-frontend/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return the
// view models. Presentation is rendered elsewhere.
type Handlers struct {
	Backend   identity.Backend
	Sessions  *session.Manager
	Boot      *bootstrap.Bootstrapper
	Editor    *profile.Editor
	Audit     *audit.Service
	EntryPath string
}

// --- Auth ---

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	// From is the path the guard recorded before redirecting here; login
	// resumes it when it is a safe internal path.
	From string `json:"from,omitempty"`
}

// Login authenticates against the identity backend and establishes the
// session: both credential representations are written before the reply that
// carries the navigation target.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "identifier and password required"})
		return
	}

	res, err := h.Backend.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		_ = h.Audit.LogLoginFailed(c.Request.Context(), req.Identifier, c.ClientIP())
		var be *identity.BackendError
		if errors.As(err, &be) {
			// The backend's message is the user-facing error, verbatim.
			c.AbortWithStatusJSON(be.Status, gin.H{"message": be.Message})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity backend unreachable"})
		return
	}

	if err := h.Sessions.Save(c.Request.Context(), c, res.Token, &res.User); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session could not be established"})
		return
	}
	_ = h.Audit.LogLogin(c.Request.Context(), res.User.ID, res.User.Username, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"token":    res.Token,
		"user":     res.User,
		"redirect": resumeTarget(req.From),
	})
}

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Register relays account creation. The password/confirmation equality check
// happens here, before any backend call.
func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, email, password, confirmPassword required"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "password confirmation does not match"})
		return
	}

	err := h.Backend.Register(c.Request.Context(), identity.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var be *identity.BackendError
		if errors.As(err, &be) {
			c.AbortWithStatusJSON(be.Status, gin.H{"message": be.Message})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity backend unreachable"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"redirect": h.EntryPath})
}

// Logout tears the session down: record and cookie together, then hands back
// the entry path.
func (h Handlers) Logout(c *gin.Context) {
	token := h.requestToken(c)
	if token != "" {
		if p, ok := h.Sessions.Principal(c.Request.Context(), token); ok {
			_ = h.Audit.LogLogout(c.Request.Context(), p.ID, p.Username, c.ClientIP())
		}
		_ = h.Sessions.Clear(c.Request.Context(), c, token)
	}
	c.JSON(http.StatusOK, gin.H{"redirect": h.EntryPath})
}

// DiscordLink starts the Discord link handoff: a full navigation to the
// backend carrying the credential, which returns the browser to the
// dashboard with the discord=linked marker.
func (h Handlers) DiscordLink(c *gin.Context) {
	token := h.requestToken(c)
	if token == "" {
		h.redirectToEntry(c)
		return
	}
	if p, ok := h.Sessions.Principal(c.Request.Context(), token); ok {
		_ = h.Audit.LogDiscordLink(c.Request.Context(), p.ID, p.Username, c.ClientIP())
	}
	c.Redirect(http.StatusTemporaryRedirect, h.Backend.DiscordLinkURL(token))
}

// --- Dashboard ---

// Dashboard renders the card grid. The discord=linked marker forces a
// principal refetch because the cache predates the link round-trip.
func (h Handlers) Dashboard(c *gin.Context) {
	token := h.requestToken(c)
	forced := c.Query("discord") == "linked"

	res, err := h.Boot.Load(c.Request.Context(), token, forced)
	switch {
	case errors.Is(err, bootstrap.ErrNoCredential):
		h.redirectToEntry(c)
		return
	case errors.Is(err, bootstrap.ErrUnavailable):
		// Absence of information is never permission: render with every
		// affordance disabled, but do not log the user out.
		logger.FromGin(c).Warn("dashboard principal unavailable", "err", err)
		c.JSON(http.StatusOK, dashboardView(nil, false, true))
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dashboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, dashboardView(res.Principal, res.Degraded, false))
}

// --- Profile ---

// Profile renders the magistrate profile view. This is the canonical read:
// it always refetches the principal.
func (h Handlers) Profile(c *gin.Context) {
	token := h.requestToken(c)

	res, err := h.Boot.Load(c.Request.Context(), token, true)
	switch {
	case errors.Is(err, bootstrap.ErrNoCredential):
		h.redirectToEntry(c)
		return
	case errors.Is(err, bootstrap.ErrUnavailable):
		logger.FromGin(c).Warn("profile principal unavailable", "err", err)
		c.JSON(http.StatusOK, profileView(nil, false, true))
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
		return
	}
	c.JSON(http.StatusOK, profileView(res.Principal, res.Degraded, false))
}

// BeginStructureEdit hydrates an editable draft from the cached principal.
// Only a missing credential redirects; a backend outage is a retryable load
// error, the session stays intact.
func (h Handlers) BeginStructureEdit(c *gin.Context) {
	token := h.requestToken(c)

	res, err := h.Boot.Load(c.Request.Context(), token, false)
	switch {
	case errors.Is(err, bootstrap.ErrNoCredential):
		h.redirectToEntry(c)
		return
	case errors.Is(err, bootstrap.ErrUnavailable):
		logger.FromGin(c).Warn("structure edit hydration unavailable", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "profile could not be loaded", "retryable": true})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile could not be loaded"})
		return
	}
	if !gate.CanEditStructure(res.Principal) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "structure edit not allowed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": profile.BeginEdit(*res.Principal)})
}

// SaveStructure submits the structure draft. On failure the caller keeps its
// draft; the error is retryable.
func (h Handlers) SaveStructure(c *gin.Context) {
	token := h.requestToken(c)
	if token == "" {
		h.redirectToEntry(c)
		return
	}

	var draft profile.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	current, ok := h.Sessions.Principal(c.Request.Context(), token)
	if !ok {
		h.redirectToEntry(c)
		return
	}

	updated, err := h.Editor.Save(c.Request.Context(), token, *current, draft)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "structure edit not allowed"})
		case errors.Is(err, profile.ErrSaveInFlight):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a save is already in progress", "retryable": true})
		default:
			var be *identity.BackendError
			if errors.As(err, &be) {
				c.AbortWithStatusJSON(be.Status, gin.H{"message": be.Message, "retryable": true})
				return
			}
			logger.FromGin(c).Warn("structure save failed", "err", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "profile update failed", "retryable": true})
		}
		return
	}

	if meta, err := json.Marshal(draft); err == nil {
		_ = h.Audit.LogProfileUpdate(c.Request.Context(), updated.ID, updated.Username, c.ClientIP(), string(meta))
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  updated,
		"draft": profile.BeginEdit(updated),
	})
}

// CancelStructureEdit discards the caller's draft and answers one rehydrated
// from the last known good principal.
func (h Handlers) CancelStructureEdit(c *gin.Context) {
	token := h.requestToken(c)

	draft, ok := h.Editor.CancelEdit(c.Request.Context(), token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no cached profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// --- helpers ---

// requestToken prefers the guard-injected token and falls back to the cookie
// for views outside the guarded prefix. Either way the session record stays
// the only credential authority.
func (h Handlers) requestToken(c *gin.Context) string {
	if tok, err := session.Token(c.Request.Context()); err == nil {
		return tok
	}
	tok, err := c.Cookie(h.Sessions.CookieName())
	if err != nil {
		return ""
	}
	return tok
}

func (h Handlers) redirectToEntry(c *gin.Context) {
	q := url.Values{"from": {c.Request.URL.Path}}
	c.Redirect(http.StatusTemporaryRedirect, h.EntryPath+"?"+q.Encode())
	c.Abort()
}

// resumeTarget validates the guard's from parameter before echoing it as the
// post-login destination. Anything that is not an internal absolute path
// falls back to the dashboard.
func resumeTarget(from string) string {
	if strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		return from
	}
	return "/dashboard"
}
