// Manejador de puntos de entrega para coordinar la entrega de los libros.

package api

import (
	"database/sql"
	"net/http"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

// filaSQL cubre *sql.Row y *sql.Rows.
type filaSQL interface {
	Scan(dest ...interface{}) error
}

func escanearPunto(destino *dto.PuntoEntrega, fila filaSQL) error {
	return fila.Scan(&destino.ID, &destino.UsuarioID, &destino.Nombre, &destino.Direccion,
		&destino.Ciudad, &destino.Provincia, &destino.CodigoPostal, &destino.Referencia,
		&destino.EsPredeterminado, &destino.FechaCreacion)
}

const columnasPunto = `idPuntoEntrega, idUsuario, nombre, direccion, ciudad, provincia,
	codigo_postal, referencia, es_predeterminado, fecha_creacion`

// GET /puntos-entrega?userId=
func ListarPuntosEntrega(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId requerido"})
		return
	}

	rows, err := dto.DB.Query(`SELECT `+columnasPunto+` FROM punto_entrega
		WHERE idUsuario = ? ORDER BY es_predeterminado DESC, fecha_creacion DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener puntos de entrega"})
		return
	}
	defer rows.Close()

	puntos := []dto.PuntoEntrega{}
	for rows.Next() {
		var p dto.PuntoEntrega
		if err := escanearPunto(&p, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar puntos de entrega"})
			return
		}
		puntos = append(puntos, p)
	}

	c.JSON(http.StatusOK, puntos)
}

// POST /puntos-entrega
func CrearPuntoEntrega(c *gin.Context) {
	var input struct {
		UsuarioID    int32   `json:"idUsuario"`
		Nombre       string  `json:"nombre"`
		Direccion    string  `json:"direccion"`
		Ciudad       *string `json:"ciudad"`
		Provincia    *string `json:"provincia"`
		CodigoPostal *string `json:"codigo_postal"`
		Referencia   *string `json:"referencia"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}
	if input.UsuarioID == 0 || input.Nombre == "" || input.Direccion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos incompletos"})
		return
	}

	resultado, err := dto.DB.Exec(`
		INSERT INTO punto_entrega (idUsuario, nombre, direccion, ciudad, provincia, codigo_postal, referencia)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.UsuarioID, input.Nombre, input.Direccion, input.Ciudad, input.Provincia,
		input.CodigoPostal, input.Referencia)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear punto de entrega"})
		return
	}

	id, _ := resultado.LastInsertId()
	var p dto.PuntoEntrega
	if err := escanearPunto(&p, dto.DB.QueryRow(
		`SELECT `+columnasPunto+` FROM punto_entrega WHERE idPuntoEntrega = ?`, id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear punto de entrega"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// PUT /puntos-entrega/:id — al marcar un punto como predeterminado se
// desmarcan únicamente los demás puntos del mismo usuario, dentro de una
// transacción para que dos llamadas simultáneas no dejen dos predeterminados.
func ActualizarPuntoEntrega(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Nombre           string  `json:"nombre"`
		Direccion        string  `json:"direccion"`
		Ciudad           *string `json:"ciudad"`
		Provincia        *string `json:"provincia"`
		CodigoPostal     *string `json:"codigo_postal"`
		Referencia       *string `json:"referencia"`
		EsPredeterminado bool    `json:"es_predeterminado"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}
	if input.Nombre == "" || input.Direccion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos incompletos"})
		return
	}

	tx, err := dto.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
		return
	}
	defer tx.Rollback()

	var dueno int32
	err = tx.QueryRow("SELECT idUsuario FROM punto_entrega WHERE idPuntoEntrega = ?", id).Scan(&dueno)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Punto de entrega no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
		return
	}

	if input.EsPredeterminado {
		if _, err := tx.Exec(
			"UPDATE punto_entrega SET es_predeterminado = FALSE WHERE idUsuario = ? AND idPuntoEntrega != ?",
			dueno, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
			return
		}
	}

	if _, err := tx.Exec(`
		UPDATE punto_entrega SET nombre = ?, direccion = ?, ciudad = ?, provincia = ?,
			codigo_postal = ?, referencia = ?, es_predeterminado = ?
		WHERE idPuntoEntrega = ?`,
		input.Nombre, input.Direccion, input.Ciudad, input.Provincia,
		input.CodigoPostal, input.Referencia, input.EsPredeterminado, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
		return
	}

	var p dto.PuntoEntrega
	if err := escanearPunto(&p, tx.QueryRow(
		`SELECT `+columnasPunto+` FROM punto_entrega WHERE idPuntoEntrega = ?`, id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar punto de entrega"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DELETE /puntos-entrega/:id
func EliminarPuntoEntrega(c *gin.Context) {
	id := c.Param("id")

	resultado, err := dto.DB.Exec("DELETE FROM punto_entrega WHERE idPuntoEntrega = ?", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar punto de entrega"})
		return
	}
	if filas, _ := resultado.RowsAffected(); filas == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Punto de entrega no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Punto de entrega eliminado"})
}
