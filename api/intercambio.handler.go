// Manejador del ciclo de vida de intercambios: proponer, aceptar, rechazar.

package api

import (
	"database/sql"
	"net/http"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

type intercambioDetalle struct {
	dto.Intercambio
	LibroOfrecidoTitulo  string `json:"libro_ofrecido_titulo"`
	LibroRecibidoTitulo  string `json:"libro_recibido_titulo"`
	UsuarioOrigenNombre  string `json:"usuario_origen_nombre,omitempty"`
	UsuarioDestinoNombre string `json:"usuario_destino_nombre,omitempty"`
}

const columnasIntercambio = `i.idIntercambio, i.libro_ofrecido_id, i.libro_recibido_id,
	i.usuario_origen_id, i.usuario_destino_id, i.estado, i.fecha`

// GET /intercambios
func ListarIntercambios(c *gin.Context) {
	rows, err := dto.DB.Query(`
		SELECT ` + columnasIntercambio + `,
			lo.titulo AS libro_ofrecido_titulo,
			lr.titulo AS libro_recibido_titulo,
			uo.nombre AS usuario_origen_nombre,
			ud.nombre AS usuario_destino_nombre
		FROM intercambio i
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		JOIN libro lr ON i.libro_recibido_id = lr.idLibro
		JOIN usuario uo ON i.usuario_origen_id = uo.idUsuario
		JOIN usuario ud ON i.usuario_destino_id = ud.idUsuario
		ORDER BY i.fecha DESC, i.idIntercambio DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener intercambios"})
		return
	}
	defer rows.Close()

	intercambios := []intercambioDetalle{}
	for rows.Next() {
		var i intercambioDetalle
		if err := rows.Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha,
			&i.LibroOfrecidoTitulo, &i.LibroRecibidoTitulo,
			&i.UsuarioOrigenNombre, &i.UsuarioDestinoNombre); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar intercambios"})
			return
		}
		intercambios = append(intercambios, i)
	}

	c.JSON(http.StatusOK, intercambios)
}

// POST /intercambios — la propuesta se valida con una secuencia ordenada de
// rechazos independientes antes de insertar el registro pendiente.
func CrearIntercambio(c *gin.Context) {
	var input struct {
		LibroOfrecidoID  int32 `json:"libro_ofrecido_id"`
		LibroRecibidoID  int32 `json:"libro_recibido_id"`
		UsuarioOrigenID  int32 `json:"usuario_origen_id"`
		UsuarioDestinoID int32 `json:"usuario_destino_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if input.LibroOfrecidoID == 0 || input.LibroRecibidoID == 0 ||
		input.UsuarioOrigenID == 0 || input.UsuarioDestinoID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos incompletos"})
		return
	}

	if input.LibroOfrecidoID == input.LibroRecibidoID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No puedes proponer un intercambio con el mismo libro"})
		return
	}

	if input.UsuarioOrigenID == input.UsuarioDestinoID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No puedes intercambiar libros contigo mismo"})
		return
	}

	type datosLibro struct {
		dueno  int32
		estado string
	}
	consultar := func(id int32) (*datosLibro, error) {
		var d datosLibro
		err := dto.DB.QueryRow("SELECT idUsuario, estado FROM libro WHERE idLibro = ?", id).
			Scan(&d.dueno, &d.estado)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return &d, err
	}

	ofrecido, err := consultar(input.LibroOfrecidoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al validar libros"})
		return
	}
	recibido, err := consultar(input.LibroRecibidoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al validar libros"})
		return
	}
	if ofrecido == nil || recibido == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Uno o ambos libros no existen"})
		return
	}

	if ofrecido.dueno != input.UsuarioOrigenID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No eres dueño del libro que ofreces"})
		return
	}
	if recibido.dueno != input.UsuarioDestinoID {
		c.JSON(http.StatusForbidden, gin.H{"error": "El libro solicitado no pertenece al usuario destino"})
		return
	}

	if ofrecido.estado != "disponible" || recibido.estado != "disponible" {
		c.JSON(http.StatusConflict, gin.H{"error": "Ambos libros deben estar disponibles para intercambiar"})
		return
	}

	resultado, err := dto.DB.Exec(`
		INSERT INTO intercambio (libro_ofrecido_id, libro_recibido_id, usuario_origen_id, usuario_destino_id)
		VALUES (?, ?, ?, ?)`,
		input.LibroOfrecidoID, input.LibroRecibidoID, input.UsuarioOrigenID, input.UsuarioDestinoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear intercambio"})
		return
	}

	id, _ := resultado.LastInsertId()
	var i dto.Intercambio
	err = dto.DB.QueryRow(`SELECT idIntercambio, libro_ofrecido_id, libro_recibido_id,
		usuario_origen_id, usuario_destino_id, estado, fecha
		FROM intercambio WHERE idIntercambio = ?`, id).
		Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear intercambio"})
		return
	}

	c.JSON(http.StatusCreated, i)
}

// GET /intercambios/:id
func ObtenerIntercambio(c *gin.Context) {
	id := c.Param("id")

	var i intercambioDetalle
	err := dto.DB.QueryRow(`
		SELECT `+columnasIntercambio+`,
			lo.titulo AS libro_ofrecido_titulo,
			lr.titulo AS libro_recibido_titulo
		FROM intercambio i
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		JOIN libro lr ON i.libro_recibido_id = lr.idLibro
		WHERE i.idIntercambio = ?`, id).
		Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha,
			&i.LibroOfrecidoTitulo, &i.LibroRecibidoTitulo)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intercambio no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener intercambio"})
		return
	}

	c.JSON(http.StatusOK, i)
}

// PUT /intercambios/:id — solo transiciona propuestas pendientes. Aceptar marca
// ambos libros como intercambiados y rechaza el resto de propuestas pendientes
// que los involucren, todo dentro de la misma transacción.
func ActualizarIntercambio(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		(input.Estado != "aceptado" && input.Estado != "rechazado") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido"})
		return
	}

	tx, err := dto.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
		return
	}
	defer tx.Rollback()

	resultado, err := tx.Exec(
		"UPDATE intercambio SET estado = ? WHERE idIntercambio = ? AND estado = 'pendiente'",
		input.Estado, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
		return
	}

	if filas, _ := resultado.RowsAffected(); filas == 0 {
		var estado string
		err := tx.QueryRow("SELECT estado FROM intercambio WHERE idIntercambio = ?", id).Scan(&estado)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intercambio no encontrado"})
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar intercambio"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "Solo se pueden actualizar intercambios pendientes"})
		}
		return
	}

	var i dto.Intercambio
	err = tx.QueryRow(`SELECT idIntercambio, libro_ofrecido_id, libro_recibido_id,
		usuario_origen_id, usuario_destino_id, estado, fecha
		FROM intercambio WHERE idIntercambio = ?`, id).
		Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
		return
	}

	if input.Estado == "aceptado" {
		if _, err := tx.Exec("UPDATE libro SET estado = 'intercambiado' WHERE idLibro IN (?, ?)",
			i.LibroOfrecidoID, i.LibroRecibidoID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
			return
		}
		if _, err := tx.Exec(`
			UPDATE intercambio SET estado = 'rechazado'
			WHERE estado = 'pendiente' AND idIntercambio != ?
			  AND (libro_ofrecido_id IN (?, ?) OR libro_recibido_id IN (?, ?))`,
			i.ID, i.LibroOfrecidoID, i.LibroRecibidoID,
			i.LibroOfrecidoID, i.LibroRecibidoID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar intercambio"})
		return
	}

	c.JSON(http.StatusOK, i)
}

// GET /users/:id/exchanges
func IntercambiosDeUsuario(c *gin.Context) {
	id := c.Param("id")

	rows, err := dto.DB.Query(`
		SELECT `+columnasIntercambio+`,
			lo.titulo AS libro_ofrecido_titulo,
			lr.titulo AS libro_recibido_titulo
		FROM intercambio i
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		JOIN libro lr ON i.libro_recibido_id = lr.idLibro
		WHERE i.usuario_origen_id = ? OR i.usuario_destino_id = ?
		ORDER BY i.fecha DESC, i.idIntercambio DESC`, id, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener intercambios del usuario"})
		return
	}
	defer rows.Close()

	intercambios := []intercambioDetalle{}
	for rows.Next() {
		var i intercambioDetalle
		if err := rows.Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha,
			&i.LibroOfrecidoTitulo, &i.LibroRecibidoTitulo); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar intercambios"})
			return
		}
		intercambios = append(intercambios, i)
	}

	c.JSON(http.StatusOK, intercambios)
}
