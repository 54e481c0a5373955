package routes

import (
	"errors"
	"log"
	"net/http"
	"parkinglot/handlers"
	"parkinglot/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id 和 role 放進請求上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims or token is not valid",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 user_id 字段
		userID, ok := claims["user_id"].(float64)
		if !ok {
			log.Printf("Missing or invalid user_id in token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的會員 ID",
				"error":   "Invalid user_id in token",
				"code":    "ERR_INVALID_USER_ID",
			})
			c.Abort()
			return
		}

		// 確認 role 字段
		role, ok := claims["role"].(string)
		if !ok || (role != "user" && role != "admin") {
			log.Printf("Missing or invalid role in token: %v", role)
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色",
				"error":   "Invalid role in token",
				"code":    "ERR_INVALID_ROLE",
			})
			c.Abort()
			return
		}

		c.Set("user_id", int(userID))
		c.Set("role", role)
		c.Next()
	}
}

// RoleMiddleware 檢查請求者角色是否符合要求
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無法獲取角色資訊",
				"error":   "Role not found in context",
				"code":    "ERR_ROLE_NOT_FOUND",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色類型",
				"error":   "Invalid role type",
				"code":    "ERR_INVALID_ROLE_TYPE",
			})
			c.Abort()
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if roleStr == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  false,
				"message": "權限不足",
				"error":   "Insufficient role permissions",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 會員路由
		users := v1.Group("/users")
		{
			// 公開路由：不需要 token 驗證
			users.POST("/register", handlers.RegisterUser) // 註冊會員
			users.POST("/login", handlers.LoginUser)       // 登入會員並獲取 token

			// 受保護路由：需要 token 驗證
			usersWithAuth := users.Group("")
			usersWithAuth.Use(AuthMiddleware())
			{
				// 查看個人資料與進行中的訂位
				usersWithAuth.GET("/profile", RoleMiddleware("user"), handlers.GetUserProfile)
			}
		}

		// 停車場清單：會員訂位前需要看得到停車場與剩餘空位
		lots := v1.Group("/lots")
		lots.Use(AuthMiddleware())
		{
			lots.GET("", RoleMiddleware("user", "admin"), handlers.GetAllLots)
		}

		// 訂位路由
		bookings := v1.Group("/bookings")
		bookings.Use(AuthMiddleware())
		{
			// 訂位：系統自動挑空位
			bookings.POST("", RoleMiddleware("user"), handlers.BookSpot)
			// 離場結算
			bookings.POST("/release", RoleMiddleware("user"), handlers.ReleaseSpot)
			// 查詢自己的訂位歷史
			bookings.GET("", RoleMiddleware("user"), handlers.GetUserBookings)
		}

		// 管理員路由
		admin := v1.Group("/admin")
		{
			// 公開路由
			admin.POST("/login", handlers.LoginAdmin) // 登入管理員並獲取 token

			// 管理員專屬路由
			adminWithAuth := admin.Group("")
			adminWithAuth.Use(AuthMiddleware(), RoleMiddleware("admin"))
			{
				adminWithAuth.POST("/lots", handlers.CreateLot)         // 建立停車場
				adminWithAuth.GET("/lots/:id", handlers.GetLot)         // 查詢停車場與車位
				adminWithAuth.PUT("/lots/:id", handlers.UpdateLot)      // 更新停車場並調整車位數
				adminWithAuth.DELETE("/lots/:id", handlers.DeleteLot)   // 刪除停車場
				adminWithAuth.GET("/users", handlers.GetAllUsers)       // 查詢所有會員
				adminWithAuth.GET("/bookings/:id", handlers.GetBooking) // 查詢單筆訂位
				adminWithAuth.GET("/charts", handlers.GetLotOccupancy)  // 空位/佔用統計
			}
		}
	}
}
