package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// extraerToken busca el token primero en el header Authorization y después
// en la cookie "auth" que se entrega al iniciar sesión.
func extraerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		if cookie, err := c.Cookie(cookieSesion); err == nil {
			tokenString = cookie
		}
	}
	return tokenString
}

// validarToken parsea el token firmado y deja el id y rol del usuario en el contexto.
func validarToken(c *gin.Context, tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return claveFirma(), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	id, _ := claims["id"].(float64)
	rol, _ := claims["rol"].(string)
	c.Set("usuarioID", int32(id))
	c.Set("rol", rol)
	return true
}

func Autenticar() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extraerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token requerido"})
			return
		}
		if !validarToken(c, tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}
		c.Next()
	}
}

// AutenticacionOpcional intenta identificar al usuario sin exigirlo. Se usa en
// el catálogo público, que muestra más libros cuando hay sesión.
func AutenticacionOpcional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extraerToken(c); tokenString != "" {
			validarToken(c, tokenString)
		}
		c.Next()
	}
}
