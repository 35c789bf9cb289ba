// Manejador de operaciones sobre libros del catálogo (crear, editar, eliminar, listar).

package api

import (
	"database/sql"
	"net/http"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

type libroConDueno struct {
	dto.Libro
	UsuarioNombre string `json:"usuario_nombre"`
}

func escanearLibroConDueno(rows *sql.Rows, l *libroConDueno) error {
	return rows.Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.Anio, &l.Editorial,
		&l.Descripcion, &l.ImgURL, &l.Estado, &l.UsuarioID, &l.FechaCreacion, &l.UsuarioNombre)
}

const columnasLibro = `l.idLibro, l.titulo, l.autor, l.genero, l.anio, l.editorial,
	l.descripcion, l.img_url, l.estado, l.idUsuario, l.fecha_creacion`

// GET /books — sin sesión solo se ven los libros disponibles; con sesión se
// suman los propios (en cualquier estado) y los intercambiados del resto.
func ListarLibros(c *gin.Context) {
	consulta := `SELECT ` + columnasLibro + `, u.nombre AS usuario_nombre
		FROM libro l JOIN usuario u ON l.idUsuario = u.idUsuario`
	var args []interface{}

	if usuarioID, existe := c.Get("usuarioID"); existe {
		consulta += " WHERE l.idUsuario = ? OR l.estado IN ('disponible', 'intercambiado')"
		args = append(args, usuarioID)
	} else {
		consulta += " WHERE l.estado = 'disponible'"
	}
	consulta += " ORDER BY l.fecha_creacion DESC, l.idLibro DESC"

	rows, err := dto.DB.Query(consulta, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener libros"})
		return
	}
	defer rows.Close()

	libros := []libroConDueno{}
	for rows.Next() {
		var l libroConDueno
		if err := escanearLibroConDueno(rows, &l); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar libros"})
			return
		}
		libros = append(libros, l)
	}

	c.JSON(http.StatusOK, libros)
}

// GET /books/:id
func ObtenerLibro(c *gin.Context) {
	id := c.Param("id")

	var l libroConDueno
	err := dto.DB.QueryRow(`SELECT `+columnasLibro+`, u.nombre AS usuario_nombre
		FROM libro l JOIN usuario u ON l.idUsuario = u.idUsuario
		WHERE l.idLibro = ?`, id).Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.Anio,
		&l.Editorial, &l.Descripcion, &l.ImgURL, &l.Estado, &l.UsuarioID, &l.FechaCreacion, &l.UsuarioNombre)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Libro no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener libro"})
		return
	}

	c.JSON(http.StatusOK, l)
}

// POST /books
func CrearLibro(c *gin.Context) {
	var input struct {
		Titulo      string  `json:"titulo"`
		Autor       string  `json:"autor"`
		Genero      string  `json:"genero"`
		Anio        *int64  `json:"anio"`
		Editorial   *string `json:"editorial"`
		Descripcion *string `json:"descripcion"`
		ImgURL      *string `json:"img_url"`
		UsuarioID   int32   `json:"idUsuario"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}
	if input.Titulo == "" || input.Autor == "" || input.Genero == "" || input.UsuarioID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos incompletos"})
		return
	}

	resultado, err := dto.DB.Exec(`
		INSERT INTO libro (titulo, autor, genero, anio, editorial, descripcion, img_url, idUsuario)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Titulo, input.Autor, input.Genero, input.Anio, input.Editorial,
		input.Descripcion, input.ImgURL, input.UsuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear libro"})
		return
	}

	id, _ := resultado.LastInsertId()
	var l dto.Libro
	err = dto.DB.QueryRow(`SELECT idLibro, titulo, autor, genero, anio, editorial,
		descripcion, img_url, estado, idUsuario, fecha_creacion FROM libro WHERE idLibro = ?`, id).
		Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.Anio, &l.Editorial,
			&l.Descripcion, &l.ImgURL, &l.Estado, &l.UsuarioID, &l.FechaCreacion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear libro"})
		return
	}

	c.JSON(http.StatusCreated, l)
}

// verificarDueno resuelve el contrato de autorización de las mutaciones: 401 si
// no viene el solicitante, 404 si el libro no existe, 403 si no es el dueño.
// Devuelve false si ya respondió con un error.
func verificarDueno(c *gin.Context, libroID string, solicitante int32, mensajePermiso string) bool {
	if solicitante == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
		return false
	}

	var dueno int32
	err := dto.DB.QueryRow("SELECT idUsuario FROM libro WHERE idLibro = ?", libroID).Scan(&dueno)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Libro no encontrado"})
		return false
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar libro"})
		return false
	}

	if dueno != solicitante {
		c.JSON(http.StatusForbidden, gin.H{"error": mensajePermiso})
		return false
	}
	return true
}

// PUT /books/:id
func ActualizarLibro(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Titulo      string  `json:"titulo"`
		Autor       string  `json:"autor"`
		Genero      string  `json:"genero"`
		Anio        *int64  `json:"anio"`
		Editorial   *string `json:"editorial"`
		Descripcion *string `json:"descripcion"`
		Estado      string  `json:"estado"`
		UsuarioID   int32   `json:"idUsuario"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if !verificarDueno(c, id, input.UsuarioID, "No tienes permiso para editar este libro") {
		return
	}

	if input.Estado == "" {
		input.Estado = "disponible"
	}

	// La condición sobre idUsuario hace atómica la mutación: aunque la
	// propiedad cambie entre la verificación y el UPDATE, nunca se toca un
	// libro ajeno.
	_, err := dto.DB.Exec(`
		UPDATE libro SET titulo = ?, autor = ?, genero = ?, anio = ?, editorial = ?,
			descripcion = ?, estado = ?
		WHERE idLibro = ? AND idUsuario = ?`,
		input.Titulo, input.Autor, input.Genero, input.Anio, input.Editorial,
		input.Descripcion, input.Estado, id, input.UsuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar libro"})
		return
	}

	var l dto.Libro
	err = dto.DB.QueryRow(`SELECT idLibro, titulo, autor, genero, anio, editorial,
		descripcion, img_url, estado, idUsuario, fecha_creacion FROM libro WHERE idLibro = ?`, id).
		Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.Anio, &l.Editorial,
			&l.Descripcion, &l.ImgURL, &l.Estado, &l.UsuarioID, &l.FechaCreacion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar libro"})
		return
	}

	c.JSON(http.StatusOK, l)
}

// DELETE /books/:id — el solicitante viene en el cuerpo, igual que en PUT.
func EliminarLibro(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		UsuarioID int32 `json:"idUsuario"`
	}
	_ = c.ShouldBindJSON(&input)

	if !verificarDueno(c, id, input.UsuarioID, "No tienes permiso para eliminar este libro") {
		return
	}

	if _, err := dto.DB.Exec("DELETE FROM libro WHERE idLibro = ? AND idUsuario = ?", id, input.UsuarioID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar libro"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Libro eliminado"})
}

// GET /users/:id/books
func LibrosDeUsuario(c *gin.Context) {
	id := c.Param("id")

	rows, err := dto.DB.Query(`SELECT idLibro, titulo, autor, genero, anio, editorial,
		descripcion, img_url, estado, idUsuario, fecha_creacion
		FROM libro WHERE idUsuario = ? ORDER BY fecha_creacion DESC, idLibro DESC`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener libros del usuario"})
		return
	}
	defer rows.Close()

	libros := []dto.Libro{}
	for rows.Next() {
		var l dto.Libro
		if err := rows.Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.Anio, &l.Editorial,
			&l.Descripcion, &l.ImgURL, &l.Estado, &l.UsuarioID, &l.FechaCreacion); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar libros"})
			return
		}
		libros = append(libros, l)
	}

	c.JSON(http.StatusOK, libros)
}
