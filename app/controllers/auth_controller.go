package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"nullable,in=user|admin"`
}

// Login accepts a username or an email in the username field.
func (ac *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}

	result, err := ac.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ac *AuthController) Me(c *ctx.Context) {
	p, ok := c.Principal()
	if !ok {
		c.Unauthorized()
		return
	}

	user, err := ac.service.Me(c.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"user": user})
}

func (ac *AuthController) Register(c *ctx.Context) {
	p, ok := c.Principal()
	if !ok {
		c.Unauthorized()
		return
	}

	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}

	user, err := ac.service.CreateUser(c.Context(), p, services.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

func (ac *AuthController) Users(c *ctx.Context) {
	p, ok := c.Principal()
	if !ok {
		c.Unauthorized()
		return
	}

	users, err := ac.service.ListUsers(c.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"users": users})
}
