// Simulación de envío de notificaciones sobre propuestas de intercambio.

package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

// EnviarNotificacion simula el aviso por correo al usuario destino de una
// propuesta de intercambio pendiente.
func EnviarNotificacion(c *gin.Context) {
	id := c.Param("id")

	var correo, titulo, estado string
	err := dto.DB.QueryRow(`
		SELECT u.email, lo.titulo, i.estado
		FROM intercambio i
		JOIN usuario u ON i.usuario_destino_id = u.idUsuario
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		WHERE i.idIntercambio = ?`, id).Scan(&correo, &titulo, &estado)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intercambio no encontrado"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar el intercambio"})
		return
	}

	if estado != "pendiente" {
		c.JSON(http.StatusConflict, gin.H{"error": "Solo se notifican intercambios pendientes"})
		return
	}

	// Envío simulado; aquí iría la integración real de correo.
	fmt.Printf("Simulando aviso a %s: te ofrecen %q en intercambio\n", correo, titulo)

	c.JSON(http.StatusOK, gin.H{
		"mensaje": fmt.Sprintf("Notificación enviada a %s", correo),
	})
}
