package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"
)

// Genera en PDF el comprobante de un intercambio aceptado, para coordinar la
// entrega de los libros entre las dos partes.
func GenerarComprobantePDF(c *gin.Context) {
	id := c.Param("id")

	var datos struct {
		Estado        string
		LibroOfrecido string
		LibroRecibido string
		Origen        string
		Destino       string
		Fecha         sql.NullTime
	}

	err := dto.DB.QueryRow(`
		SELECT i.estado, lo.titulo, lr.titulo,
			uo.nombre, ud.nombre, i.fecha
		FROM intercambio i
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		JOIN libro lr ON i.libro_recibido_id = lr.idLibro
		JOIN usuario uo ON i.usuario_origen_id = uo.idUsuario
		JOIN usuario ud ON i.usuario_destino_id = ud.idUsuario
		WHERE i.idIntercambio = ?`, id).
		Scan(&datos.Estado, &datos.LibroOfrecido, &datos.LibroRecibido,
			&datos.Origen, &datos.Destino, &datos.Fecha)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intercambio no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar intercambio"})
		return
	}

	if datos.Estado != "aceptado" {
		c.JSON(http.StatusConflict, gin.H{"error": "Solo se puede generar comprobante de intercambios aceptados"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Comprobante de Intercambio")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Intercambio #%s", id))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("%s entrega: %s", datos.Origen, datos.LibroOfrecido))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("%s entrega: %s", datos.Destino, datos.LibroRecibido))
	if datos.Fecha.Valid {
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Fecha de la propuesta: %s", datos.Fecha.Time.Format("2006-01-02 15:04")))
	}

	c.Header("Content-Type", "application/pdf")
	_ = pdf.Output(c.Writer)
}
