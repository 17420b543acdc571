package handler

import (
	"github.com/gin-gonic/gin"

	sessionapp "github.com/123shiju/ecommerce-client/internal/application/session"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/dto"
)

// SessionHandler serves the sign-in and sign-up screen
type SessionHandler struct {
	BaseHandler
	sessions *sessionapp.Service
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *sessionapp.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/session")
	g.GET("", h.Current)
	g.POST("/signin", h.SignIn)
	g.POST("/signup", h.SignUp)
	g.POST("/signout", h.SignOut)
}

// Current reports who is signed in
func (h *SessionHandler) Current(c *gin.Context) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		h.Success(c, dto.SessionResponse{})
		return
	}
	h.Success(c, dto.SessionResponse{SignedIn: true, User: &user})
}

// SignIn handles the login form
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email and password are required")
		return
	}

	sess, err := h.sessions.SignIn(c.Request.Context(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SessionResponse{SignedIn: true, User: &sess.User})
}

// SignUp handles the registration form
func (h *SessionHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name, email and password are required")
		return
	}

	sess, err := h.sessions.SignUp(c.Request.Context(), identity.Profile{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.SessionResponse{SignedIn: true, User: &sess.User})
}

// SignOut ends the session
func (h *SessionHandler) SignOut(c *gin.Context) {
	h.sessions.SignOut(c.Request.Context())
	h.Success(c, dto.SessionResponse{})
}
