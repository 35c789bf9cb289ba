// Manejador de usuarios: registro, login, sesión y administración de cuentas.

package api

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const cookieSesion = "auth"

// claveFirma se resuelve en cada uso y no en la carga del paquete, porque el
// .env se lee recién dentro de main y una variable de paquete quedaría fijada
// antes con el valor de desarrollo.
func claveFirma() []byte {
	if clave := os.Getenv("JWT_SECRET"); clave != "" {
		return []byte(clave)
	}
	return []byte("clave_secreta_solo_para_desarrollo")
}

// generarToken firma un JWT con el id, nombre y rol del usuario.
func generarToken(usuario *dto.Usuario) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     usuario.ID,
		"nombre": usuario.Nombre,
		"rol":    usuario.TipoUsuario,
		"exp":    time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(claveFirma())
}

// emitirSesion coloca el token como cookie HttpOnly además de devolverlo en el
// cuerpo, para que los clientes de navegador no tengan que guardarlo a mano.
func emitirSesion(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieSesion, token, 7*24*3600, "/", "", false, true)
}

func perfilJSON(usuario *dto.Usuario) gin.H {
	return gin.H{
		"idUsuario":   usuario.ID,
		"nombre":      usuario.Nombre,
		"apellido":    usuario.Apellido,
		"email":       usuario.Email,
		"username":    usuario.Username,
		"tipoUsuario": strings.ToLower(strings.TrimSpace(usuario.TipoUsuario)),
	}
}

// POST /auth/register
func RegistrarUsuario(c *gin.Context) {
	var input struct {
		Nombre          string `json:"nombre"`
		Apellido        string `json:"apellido"`
		Email           string `json:"email"`
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if input.Nombre == "" || input.Apellido == "" || input.Email == "" || input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos requeridos"})
		return
	}

	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Las contraseñas no coinciden"})
		return
	}

	// La unicidad la garantiza la base, pero se consulta antes para responder
	// 409 con un mensaje claro en lugar del error del driver.
	var repetidos int
	err := dto.DB.QueryRow("SELECT COUNT(*) FROM usuario WHERE email = ? OR username = ?",
		input.Email, input.Username).Scan(&repetidos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar usuario"})
		return
	}
	if repetidos > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "El email o username ya está registrado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al encriptar contraseña"})
		return
	}

	resultado, err := dto.DB.Exec(
		"INSERT INTO usuario (nombre, apellido, email, username, contrasena) VALUES (?, ?, ?, ?, ?)",
		input.Nombre, input.Apellido, input.Email, input.Username, string(hash))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar usuario"})
		return
	}

	id, _ := resultado.LastInsertId()
	usuario := dto.Usuario{
		ID:          int32(id),
		Nombre:      input.Nombre,
		Apellido:    input.Apellido,
		Email:       input.Email,
		Username:    input.Username,
		TipoUsuario: "usuario",
	}

	token, err := generarToken(&usuario)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar token"})
		return
	}
	emitirSesion(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"mensaje": "Usuario creado exitosamente",
		"token":   token,
		"user":    perfilJSON(&usuario),
	})
}

// POST /auth/login
func LoginUsuario(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña requeridos"})
		return
	}

	var usuario dto.Usuario
	err := dto.DB.QueryRow(
		"SELECT idUsuario, nombre, apellido, email, username, tipoUsuario, contrasena FROM usuario WHERE email = ?",
		input.Email).Scan(&usuario.ID, &usuario.Nombre, &usuario.Apellido, &usuario.Email,
		&usuario.Username, &usuario.TipoUsuario, &usuario.Contrasena)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al iniciar sesión"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(usuario.Contrasena), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	token, err := generarToken(&usuario)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar token"})
		return
	}
	emitirSesion(c, token)

	c.JSON(http.StatusOK, gin.H{
		"mensaje": "Sesión iniciada",
		"token":   token,
		"user":    perfilJSON(&usuario),
	})
}

// POST /auth/logout
func CerrarSesion(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieSesion, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"mensaje": "Sesión cerrada"})
}

// GET /auth/me
func VerMiPerfil(c *gin.Context) {
	usuarioID, existe := c.Get("usuarioID")
	if !existe {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token requerido"})
		return
	}

	var usuario dto.Usuario
	err := dto.DB.QueryRow(
		"SELECT idUsuario, nombre, apellido, email, username, tipoUsuario FROM usuario WHERE idUsuario = ?",
		usuarioID).Scan(&usuario.ID, &usuario.Nombre, &usuario.Apellido, &usuario.Email,
		&usuario.Username, &usuario.TipoUsuario)
	// Un token válido de una cuenta ya eliminada no identifica a nadie.
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el perfil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": perfilJSON(&usuario)})
}

// GET /users (solo admin)
func ListarUsuarios(c *gin.Context) {
	rol, _ := c.Get("rol")
	if !EsAdmin(rol) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo administradores pueden listar usuarios"})
		return
	}

	rows, err := dto.DB.Query(`
		SELECT idUsuario, nombre, apellido, email, username, tipoUsuario, telefono, direccion, fecha_creacion
		FROM usuario ORDER BY fecha_creacion DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener usuarios"})
		return
	}
	defer rows.Close()

	usuarios := []dto.Usuario{}
	for rows.Next() {
		var u dto.Usuario
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &u.Username,
			&u.TipoUsuario, &u.Telefono, &u.Direccion, &u.FechaCreacion); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar usuarios"})
			return
		}
		usuarios = append(usuarios, u)
	}

	c.JSON(http.StatusOK, usuarios)
}

// GET /users/:id
func ObtenerUsuario(c *gin.Context) {
	id := c.Param("id")

	var u dto.Usuario
	err := dto.DB.QueryRow(`
		SELECT idUsuario, nombre, apellido, email, username, tipoUsuario, telefono, direccion, fecha_creacion
		FROM usuario WHERE idUsuario = ?`, id).Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email,
		&u.Username, &u.TipoUsuario, &u.Telefono, &u.Direccion, &u.FechaCreacion)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener usuario"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// PUT /users/:id — el propio usuario o un admin actualizan el perfil.
func ActualizarUsuario(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	usuarioID, existe := c.Get("usuarioID")
	rol, _ := c.Get("rol")
	if !existe {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token requerido"})
		return
	}
	if solicitante, _ := usuarioID.(int32); solicitante != int32(id) && !EsAdmin(rol) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permiso para editar este perfil"})
		return
	}

	var input struct {
		Nombre    string  `json:"nombre"`
		Apellido  string  `json:"apellido"`
		Telefono  *int64  `json:"telefono"`
		Direccion *string `json:"direccion"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Nombre == "" || input.Apellido == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	var cuantos int
	if dto.DB.QueryRow("SELECT COUNT(*) FROM usuario WHERE idUsuario = ?", id).Scan(&cuantos) != nil || cuantos == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	_, err = dto.DB.Exec(
		"UPDATE usuario SET nombre = ?, apellido = ?, telefono = ?, direccion = ? WHERE idUsuario = ?",
		input.Nombre, input.Apellido, input.Telefono, input.Direccion, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar usuario"})
		return
	}

	var u dto.Usuario
	err = dto.DB.QueryRow(`
		SELECT idUsuario, nombre, apellido, email, username, tipoUsuario, telefono, direccion, fecha_creacion
		FROM usuario WHERE idUsuario = ?`, id).Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email,
		&u.Username, &u.TipoUsuario, &u.Telefono, &u.Direccion, &u.FechaCreacion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar usuario"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// DELETE /users/:id (solo admin)
func EliminarUsuario(c *gin.Context) {
	rol, _ := c.Get("rol")
	if !EsAdmin(rol) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo administradores pueden eliminar usuarios"})
		return
	}

	id := c.Param("id")
	resultado, err := dto.DB.Exec("DELETE FROM usuario WHERE idUsuario = ?", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar usuario"})
		return
	}
	if filas, _ := resultado.RowsAffected(); filas == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Usuario eliminado"})
}

// POST /admin/set-admin — promueve una cuenta existente por email.
func NombrarAdmin(c *gin.Context) {
	rol, _ := c.Get("rol")
	if !EsAdmin(rol) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo administradores pueden asignar roles"})
		return
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requerido"})
		return
	}

	if _, err := dto.DB.Exec("UPDATE usuario SET tipoUsuario = 'admin' WHERE email = ?", input.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando usuario"})
		return
	}

	var usuario dto.Usuario
	err := dto.DB.QueryRow(
		"SELECT idUsuario, nombre, apellido, email, username, tipoUsuario FROM usuario WHERE email = ?",
		input.Email).Scan(&usuario.ID, &usuario.Nombre, &usuario.Apellido, &usuario.Email,
		&usuario.Username, &usuario.TipoUsuario)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando usuario"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje": "Usuario actualizado a admin",
		"user":    perfilJSON(&usuario),
	})
}
