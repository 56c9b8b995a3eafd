package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MatsalakO/social-meda-api/middleware"
	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/utils"
)

// AuthController handles account registration and JWT sessions.
type AuthController struct {
	accounts  *services.AccountService
	secret    string
	tokenTTL  time.Duration
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(accounts *services.AccountService, secret string, tokenTTL time.Duration, blacklist *utils.TokenBlacklist) *AuthController {
	if tokenTTL <= 0 {
		tokenTTL = 72 * time.Hour
	}
	return &AuthController{accounts: accounts, secret: secret, tokenTTL: tokenTTL, blacklist: blacklist}
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) issue(ctx *gin.Context, status int, user *models.User) {
	token, err := utils.GenerateToken(a.secret, user.ID, user.Email, a.tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	utils.Respond(ctx, status, 0, "", gin.H{
		"token": token,
		"user":  models.UserView{ID: user.ID, Email: user.Email},
	})
}

// Register creates an email/password account and issues a JWT.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentials
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := a.accounts.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	a.issue(ctx, http.StatusCreated, user)
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := a.accounts.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	a.issue(ctx, http.StatusOK, user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(a.tokenTTL)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}
	a.blacklist.Add(token, expiresAt)
	utils.Message(ctx, http.StatusOK, "logged out")
}

// Me returns the current authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	user, err := a.accounts.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, models.UserView{ID: user.ID, Email: user.Email})
}
