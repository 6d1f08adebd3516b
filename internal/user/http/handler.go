package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/jsonapi-server/internal/auth"
	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/request"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/schema"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
)

// Handler is the controller of the users resource.
type Handler struct {
	userService user.Service
	jwtManager  *auth.JWTManager
	links       response.Linker
}

func NewHandler(userService user.Service, jwtManager *auth.JWTManager, links response.Linker) *Handler {
	return &Handler{
		userService: userService,
		jwtManager:  jwtManager,
		links:       links,
	}
}

// Actions exposes the custom actions of the users resource.
func (h *Handler) Actions() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"login": h.Login,
		"me":    h.Me,
	}
}

//
// POST /users
//

func (h *Handler) Store(c *gin.Context) {
	obj, err := request.BindResource[RegisterAttributes](c, schema.TypeUsers)
	if err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.userService.Register(c.Request.Context(), obj.Attributes.Email, obj.Attributes.Password, obj.Attributes.DisplayName)
	if err != nil {
		h.fail(c, err)
		return
	}

	res := schema.Account(h.links, u)
	if res.Links != nil {
		c.Header("Location", res.Links.Self)
	}
	response.Data(c, http.StatusCreated, res)
}

//
// GET /users/:user
//

func (h *Handler) Show(c *gin.Context) {
	u, err := h.userService.GetByID(c.Request.Context(), routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, schema.User(h.links, u))
}

//
// POST /users/login
//

func (h *Handler) Login(c *gin.Context) {
	obj, err := request.BindResource[LoginAttributes](c, schema.TypeUsers)
	if err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.userService.Login(c.Request.Context(), obj.Attributes.Email, obj.Attributes.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, response.Document{
		Data: schema.Account(h.links, u),
		Meta: map[string]any{
			"accessToken": token,
			"tokenType":   "Bearer",
		},
	})
}

//
// GET /users/me
//

func (h *Handler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		response.Error(c, apperror.New(http.StatusUnauthorized, "unauthorized"))
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Error(c, apperror.Wrap(err, http.StatusUnauthorized, "user not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Data(c, http.StatusOK, schema.Account(h.links, u))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		response.Error(c, apperror.Wrap(err, http.StatusNotFound, "user not found"))
	case errors.Is(err, user.ErrEmailRequired), errors.Is(err, user.ErrInvalidEmail):
		response.Error(c, apperror.Invalid("/data/attributes/email", err.Error()))
	case errors.Is(err, user.ErrPasswordTooShort):
		response.Error(c, apperror.Invalid("/data/attributes/password", err.Error()))
	case errors.Is(err, user.ErrEmailAlreadyUsed):
		response.Error(c, &apperror.AppError{Code: http.StatusConflict, Message: err.Error(), Pointer: "/data/attributes/email", Err: err})
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrInactiveUser):
		response.Error(c, apperror.Wrap(err, http.StatusUnauthorized, user.ErrInvalidCredentials.Error()))
	default:
		response.Error(c, err)
	}
}
