package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/domain"
)

type IdentityHandler struct {
	identityUC domain.IdentityUsecase
}

// NewIdentityHandler registers the identity bridge routes.
func NewIdentityHandler(public *gin.RouterGroup, identityUC domain.IdentityUsecase, syncLimit, roleLimit gin.HandlerFunc) {
	handler := &IdentityHandler{identityUC: identityUC}

	public.POST("/sync-user", syncLimit, handler.SyncUser)
	public.GET("/user-role", roleLimit, handler.GetUserRole)
}

type syncUserRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// SyncUser godoc
// @Summary      Sync external identity
// @Description  Ensures a local user row exists for the identity provider's subject. Idempotent; concurrent first-logins converge on one row.
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        user  body      syncUserRequest  true  "Identity provider profile"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /sync-user [post]
func (h *IdentityHandler) SyncUser(c *gin.Context) {
	var req syncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid and email are required"})
		return
	}

	userID, err := h.identityUC.ResolveOrCreateUser(c.Request.Context(), req.UID, req.Email, req.DisplayName, req.PhotoURL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
}

// GetUserRole godoc
// @Summary      Look up a user's role
// @Description  Returns the role for the given uid. Unknown or unresolvable users report the default role; this endpoint never errors.
// @Tags         identity
// @Produce      json
// @Param        uid  query     string  true  "External auth uid"
// @Success      200  {object}  map[string]string
// @Router       /user-role [get]
func (h *IdentityHandler) GetUserRole(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusOK, gin.H{"role": domain.RoleUser})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": h.identityUC.LookupRole(c.Request.Context(), uid)})
}
