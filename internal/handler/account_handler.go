package handler

import (
	"errors"
	"net/http"

	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
)

// Roles whose sign-up stays unauthenticated so a fresh deployment can
// bootstrap its first operator accounts.
var openSignupRoles = map[string]bool{
	model.RoleAdmin: true,
	model.RoleGsn:   true,
}

// Roles whose listing and deletion stay unauthenticated.
var openAdminRoles = map[string]bool{
	model.RoleGsn: true,
}

type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler sets up the routing dependencies for account endpoints
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// RegisterRoutes binds the per-role account endpoints. Routes are laid out
// one per role so authentication can differ between the bootstrap roles and
// the rest.
func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup, authn, loginLimit gin.HandlerFunc) {
	router.POST("/refresh-token", loginLimit, h.RefreshToken)
	router.POST("/log-out", h.Logout)

	for _, role := range model.Roles() {
		router.POST("/log-in/"+role, loginLimit, h.loginFor(role))

		if openSignupRoles[role] {
			router.POST("/sign-up/"+role, h.signupFor(role))
		} else {
			router.POST("/sign-up/"+role, authn, h.signupFor(role))
		}

		if openAdminRoles[role] {
			router.GET("/getall/"+role, h.listFor(role))
			router.DELETE("/getall/"+role+"/delete/:id", h.deleteFor(role))
		} else {
			router.GET("/getall/"+role, authn, h.listFor(role))
			router.DELETE("/getall/"+role+"/delete/:id", authn, h.deleteFor(role))
		}
	}
}

// signupFor handles POST /sign-up/{role}
// @Summary      Register an account
// @Description  Creates an account in the given role's collection
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role     path      string                 true  "Role name"
// @Param        payload  body      service.SignupRequest  true  "Signup Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /sign-up/{role} [post]
func (h *AccountHandler) signupFor(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.HandleError(c, apperror.BadRequest("Invalid request payload: "+err.Error()))
			return
		}

		if err := h.accountService.Signup(c.Request.Context(), role, req); err != nil {
			response.HandleError(c, err)
			return
		}

		response.SendSuccess(c, http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// loginFor handles POST /log-in/{role}
// @Summary      Login
// @Description  Authenticates against the given role's collection, returning an access token and setting the refresh cookie
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role     path      string                true  "Role name"
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResult}
// @Failure      401      {object}  response.Response
// @Router       /log-in/{role} [post]
func (h *AccountHandler) loginFor(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.HandleError(c, apperror.BadRequest("Username and password are required"))
			return
		}

		result, err := h.accountService.Login(c.Request.Context(), role, req)
		if err != nil {
			response.HandleError(c, err)
			return
		}

		middleware.SetRefreshCookie(c, result.RefreshToken)
		response.SendSuccess(c, http.StatusOK, result)
	}
}

// listFor handles GET /getall/{role}
// @Summary      List accounts
// @Description  Lists a role's accounts without credential hashes
// @Tags         accounts
// @Produce      json
// @Param        role  path      string  true  "Role name"
// @Success      200   {object}  response.Response{data=[]service.AccountResponse}
// @Router       /getall/{role} [get]
func (h *AccountHandler) listFor(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := h.accountService.List(c.Request.Context(), role)
		if err != nil {
			response.HandleError(c, err)
			return
		}

		response.SendSuccess(c, http.StatusOK, accounts)
	}
}

// deleteFor handles DELETE /getall/{role}/delete/{id}
// @Summary      Delete account
// @Description  Removes one account from the given role's collection
// @Tags         accounts
// @Produce      json
// @Param        role  path      string  true  "Role name"
// @Param        id    path      string  true  "Account ID"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /getall/{role}/delete/{id} [delete]
func (h *AccountHandler) deleteFor(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.accountService.Delete(c.Request.Context(), role, c.Param("id")); err != nil {
			response.HandleError(c, err)
			return
		}

		response.SendSuccess(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// RefreshToken handles POST /refresh-token using the httponly refresh cookie
// @Summary      Refresh access token
// @Description  Issues a new access token from the refresh cookie
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /refresh-token [post]
func (h *AccountHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || refreshToken == "" {
		response.HandleError(c, apperror.New("Unauthorized: No token provided", http.StatusUnauthorized, apperror.CodeAuthNoToken))
		return
	}

	accessToken, err := h.accountService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeAuthInvalidToken {
			middleware.ClearRefreshCookie(c)
		}
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout handles POST /log-out by clearing the refresh cookie
// @Summary      Logout
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /log-out [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.ClearRefreshCookie(c)
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}
