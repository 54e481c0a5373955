package handlers

import (
	"errors"
	"log"
	"net/http"
	"parkinglot/models"
	"parkinglot/services"
	"parkinglot/utils"
	"regexp"

	"github.com/gin-gonic/gin"
)

// 電子郵件驗證 regex
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterInput 註冊輸入
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser 註冊會員資料檢查
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "name, email and password are required", "ERR_INVALID_INPUT")
		return
	}

	// 驗證電子郵件
	if !emailRegex.MatchString(input.Email) {
		ErrorResponse(c, http.StatusBadRequest, "請提供有效的電子郵件地址", "invalid email format", "ERR_INVALID_EMAIL")
		return
	}

	// 驗證密碼（最少 8 個字元）
	if len(input.Password) < 8 {
		ErrorResponse(c, http.StatusBadRequest, "密碼必須至少8個字符", "password must be at least 8 characters", "ERR_INVALID_PASSWORD")
		return
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	}

	if err := services.RegisterUser(user); err != nil {
		if errors.Is(err, services.ErrDuplicateIdentity) {
			ErrorResponse(c, http.StatusConflict, "該電子郵件已被註冊", err.Error(), "ERR_DUPLICATE_IDENTITY")
			return
		}
		log.Printf("Failed to register user with email %s: %v", input.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "註冊失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusCreated, "會員註冊成功", user.ToResponse())
}

// LoginInput 登入輸入
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser 登入會員並簽發 token
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "email and password are required", "ERR_INVALID_INPUT")
		return
	}

	user, err := services.LoginUser(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, "登入失敗，檢查電子郵件或密碼", "invalid email or password", "ERR_INVALID_CREDENTIALS")
			return
		}
		log.Printf("Login failed for email %s: %v", input.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "登入失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	token, err := utils.GenerateToken(user.UserID, "user")
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.UserID, err)
		ErrorResponse(c, http.StatusInternalServerError, "簽發 token 失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// GetUserProfile 查看個人資料與進行中的訂位
func GetUserProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := services.GetUserByID(userID)
	if err != nil {
		log.Printf("Failed to get user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "伺服器錯誤", err.Error(), "ERR_INTERNAL")
		return
	}
	if user == nil {
		ErrorResponse(c, http.StatusNotFound, "會員不存在", "user not found", "ERR_NOT_FOUND")
		return
	}

	active, err := services.GetActiveBooking(userID)
	if err != nil {
		log.Printf("Failed to get active booking for user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "伺服器錯誤", err.Error(), "ERR_INTERNAL")
		return
	}

	data := gin.H{"user": user.ToResponse()}
	if active != nil {
		data["active_booking"] = active.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", data)
}

// GetAllUsers 查詢所有會員（管理員）
func GetAllUsers(c *gin.Context) {
	users, err := services.GetAllUsers()
	if err != nil {
		log.Printf("Failed to get all users: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢所有會員失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	userResponses := make([]models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", userResponses)
}
