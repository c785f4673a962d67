package controllers

import (
	"net/http"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/bind"
	"github.com/storelane/storelane/pkg/response"
	"github.com/storelane/storelane/pkg/validate"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type signupInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signinInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /api/auth/signup.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var input signupInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.SignUp(input.Name, input.Email, input.Password); err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, map[string]string{"message": "User registered successfully"})
}

// Signin handles POST /api/auth/signin.
func (c *AuthController) Signin(w http.ResponseWriter, r *http.Request) {
	var input signinInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.auth.SignIn(input.Email, input.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, token)
}
