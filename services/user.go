package services

import (
	"errors"
	"fmt"
	"log"
	"parkinglot/database"
	"parkinglot/models"
	"parkinglot/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateIdentity 註冊時 email 或 username 已被使用
	ErrDuplicateIdentity = errors.New("identity already registered")
	// ErrInvalidCredentials 登入帳號或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterUser 註冊會員
func RegisterUser(user *models.User) error {
	// 檢查是否有重複的 email
	var existingUser models.User
	if err := database.DB.Where("email = ?", user.Email).First(&existingUser).Error; err == nil {
		return ErrDuplicateIdentity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate email: %v", err)
		return fmt.Errorf("failed to check for duplicate email: %w", err)
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	if err := database.DB.Create(user).Error; err != nil {
		// email 有唯一索引，把同時註冊撞到的 1062 一併轉成重複錯誤
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateIdentity
		}
		log.Printf("Failed to register user: %v", err)
		return fmt.Errorf("failed to register user: %w", err)
	}

	log.Printf("Successfully registered user with ID %d", user.UserID)
	return nil
}

// LoginUser 登入會員
func LoginUser(email, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("User with email %s not found", email)
			return nil, ErrInvalidCredentials
		}
		log.Printf("Failed to login user: %v", err)
		return nil, fmt.Errorf("failed to login user: %w", err)
	}

	// 驗證密碼
	if !utils.CheckPasswordHash(password, user.Password) {
		log.Printf("Invalid password for email %s", email)
		return nil, ErrInvalidCredentials
	}

	log.Printf("User with ID %d logged in successfully", user.UserID)
	return &user, nil
}

// LoginAdmin 登入管理員
func LoginAdmin(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := database.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Admin with username %s not found", username)
			return nil, ErrInvalidCredentials
		}
		log.Printf("Failed to login admin: %v", err)
		return nil, fmt.Errorf("failed to login admin: %w", err)
	}

	if !utils.CheckPasswordHash(password, admin.Password) {
		log.Printf("Invalid password for admin %s", username)
		return nil, ErrInvalidCredentials
	}

	log.Printf("Admin with ID %d logged in successfully", admin.AdminID)
	return &admin, nil
}

// GetUserByID 根據ID查詢會員
func GetUserByID(id int) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("User with ID %d not found", id)
			return nil, nil
		}
		log.Printf("Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetAllUsers 查詢所有會員（管理員用）
func GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := database.DB.Order("user_id").Find(&users).Error; err != nil {
		log.Printf("Failed to query all users: %v", err)
		return nil, fmt.Errorf("failed to query all users: %w", err)
	}
	log.Printf("Successfully retrieved %d users", len(users))
	return users, nil
}
