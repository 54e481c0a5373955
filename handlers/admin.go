package handlers

import (
	"errors"
	"log"
	"net/http"
	"parkinglot/services"
	"parkinglot/utils"

	"github.com/gin-gonic/gin"
)

// AdminLoginInput 管理員登入輸入
type AdminLoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginAdmin 登入管理員並簽發 token
func LoginAdmin(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "username and password are required", "ERR_INVALID_INPUT")
		return
	}

	admin, err := services.LoginAdmin(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, "登入失敗，檢查帳號或密碼", "invalid username or password", "ERR_INVALID_CREDENTIALS")
			return
		}
		log.Printf("Admin login failed for %s: %v", input.Username, err)
		ErrorResponse(c, http.StatusInternalServerError, "登入失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	token, err := utils.GenerateToken(admin.AdminID, "admin")
	if err != nil {
		log.Printf("Failed to generate token for admin %d: %v", admin.AdminID, err)
		ErrorResponse(c, http.StatusInternalServerError, "簽發 token 失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token":    token,
		"admin_id": admin.AdminID,
		"username": admin.Username,
	})
}
