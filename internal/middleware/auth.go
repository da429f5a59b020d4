package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gestimo/gestimo-api/internal/models"
)

// Claims represents the JWT claims structure
type Claims struct {
	UsuarioID uint   `json:"usuario_id"`
	Email     string `json:"email"`
	Perfil    string `json:"perfil"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that validates JWT tokens
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader == "" {
			// Query param fallback for PDF/CSV download links
			tokenString = c.Query("token")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Cabeçalho Authorization é obrigatório",
				})
				return
			}
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Formato inválido do cabeçalho Authorization",
				})
				return
			}
			tokenString = parts[1]
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set("usuarioID", claims.UsuarioID)
		c.Set("usuarioEmail", claims.Email)
		c.Set("usuarioPerfil", claims.Perfil)
		c.Set("claims", claims)

		c.Next()
	}
}

// validateToken parses and validates a JWT token string
func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de assinatura inválido")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expirado")
		}
		return nil, errors.New("token inválido")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims do token inválidas")
	}

	return claims, nil
}

// GetUsuarioID extracts the user ID from the Gin context
func GetUsuarioID(c *gin.Context) uint {
	usuarioID, exists := c.Get("usuarioID")
	if !exists {
		return 0
	}
	return usuarioID.(uint)
}

// GetUsuarioPerfil extracts the user profile from the Gin context
func GetUsuarioPerfil(c *gin.Context) string {
	perfil, exists := c.Get("usuarioPerfil")
	if !exists {
		return ""
	}
	return perfil.(string)
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *gin.Context) bool {
	return GetUsuarioPerfil(c) == models.PerfilAdmin
}

// IsGestor checks if the current user is a manager
func IsGestor(c *gin.Context) bool {
	return GetUsuarioPerfil(c) == models.PerfilGestor
}

// RequireAdmin returns a middleware that requires admin profile.
// Bank credentials and audit trails sit behind it.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Você não tem acesso a esta seção",
			})
			return
		}
		c.Next()
	}
}

// RequireGestor returns a middleware that allows admin or manager profiles.
// Mutating financial operations require it; leitura users get read-only access.
func RequireGestor() gin.HandlerFunc {
	return func(c *gin.Context) {
		perfil := GetUsuarioPerfil(c)
		if perfil == models.PerfilAdmin || perfil == models.PerfilGestor {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Você não tem acesso a esta seção",
		})
	}
}

// RequirePerfil returns a middleware that requires specific profiles
func RequirePerfil(perfisPermitidos ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		perfil := GetUsuarioPerfil(c)
		for _, p := range perfisPermitidos {
			if perfil == p {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Você não tem acesso a esta seção",
		})
	}
}
