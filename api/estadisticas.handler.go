// Estadísticas agregadas para el panel de administración y la portada pública.

package api

import (
	"net/http"
	"time"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
	"github.com/karlseguin/ccache/v3"
)

type estadisticasPublicas struct {
	Usuarios        int64           `json:"users"`
	Libros          int64           `json:"books"`
	PorCategoria    []conteoGenero  `json:"booksByCategory"`
	LibrosRecientes []libroReciente `json:"recentBooks"`
}

type conteoGenero struct {
	Genero string `json:"genero"`
	Conteo int64  `json:"count"`
}

type libroReciente struct {
	ID            int32      `json:"idLibro"`
	Titulo        string     `json:"titulo"`
	Autor         string     `json:"autor"`
	Genero        string     `json:"genero"`
	ImgURL        *string    `json:"img_url"`
	FechaCreacion *time.Time `json:"fecha_creacion"`
}

// La portada pública consulta estas cifras en cada visita; se cachean unos
// segundos en memoria para no golpear la base con cada carga.
var cachePublica = ccache.New(ccache.Configure[*estadisticasPublicas]())

const ttlEstadisticas = 30 * time.Second

func contar(consulta string) (int64, error) {
	var n int64
	err := dto.DB.QueryRow(consulta).Scan(&n)
	return n, err
}

// GET /public/stats
func EstadisticasPublicas(c *gin.Context) {
	if item := cachePublica.Get("public-stats"); item != nil && !item.Expired() {
		c.JSON(http.StatusOK, item.Value())
		return
	}

	stats, err := calcularEstadisticasPublicas()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas públicas"})
		return
	}

	cachePublica.Set("public-stats", stats, ttlEstadisticas)
	c.JSON(http.StatusOK, stats)
}

func calcularEstadisticasPublicas() (*estadisticasPublicas, error) {
	usuarios, err := contar("SELECT COUNT(*) FROM usuario")
	if err != nil {
		return nil, err
	}
	libros, err := contar("SELECT COUNT(*) FROM libro")
	if err != nil {
		return nil, err
	}

	stats := &estadisticasPublicas{
		Usuarios:        usuarios,
		Libros:          libros,
		PorCategoria:    []conteoGenero{},
		LibrosRecientes: []libroReciente{},
	}

	rows, err := dto.DB.Query(`
		SELECT genero, COUNT(*) AS count FROM libro
		GROUP BY genero ORDER BY count DESC LIMIT 12`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var g conteoGenero
		if err := rows.Scan(&g.Genero, &g.Conteo); err != nil {
			return nil, err
		}
		stats.PorCategoria = append(stats.PorCategoria, g)
	}

	recientes, err := dto.DB.Query(`
		SELECT idLibro, titulo, autor, genero, img_url, fecha_creacion
		FROM libro ORDER BY fecha_creacion DESC, idLibro DESC LIMIT 6`)
	if err != nil {
		return nil, err
	}
	defer recientes.Close()
	for recientes.Next() {
		var l libroReciente
		if err := recientes.Scan(&l.ID, &l.Titulo, &l.Autor, &l.Genero, &l.ImgURL, &l.FechaCreacion); err != nil {
			return nil, err
		}
		stats.LibrosRecientes = append(stats.LibrosRecientes, l)
	}

	return stats, nil
}

// GET /admin/stats (solo admin)
func EstadisticasAdmin(c *gin.Context) {
	rol, _ := c.Get("rol")
	if !EsAdmin(rol) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo administradores pueden ver las estadísticas"})
		return
	}

	usuarios, err := contar("SELECT COUNT(*) FROM usuario")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}
	libros, err := contar("SELECT COUNT(*) FROM libro")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}
	intercambios, err := contar("SELECT COUNT(*) FROM intercambio")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}

	librosRecientes := []libroConDueno{}
	rows, err := dto.DB.Query(`SELECT ` + columnasLibro + `, u.nombre AS usuario_nombre
		FROM libro l JOIN usuario u ON l.idUsuario = u.idUsuario
		ORDER BY l.fecha_creacion DESC, l.idLibro DESC LIMIT 6`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var l libroConDueno
		if err := escanearLibroConDueno(rows, &l); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar estadísticas"})
			return
		}
		librosRecientes = append(librosRecientes, l)
	}

	intercambiosRecientes := []intercambioDetalle{}
	filas, err := dto.DB.Query(`
		SELECT ` + columnasIntercambio + `,
			lo.titulo AS libro_ofrecido_titulo,
			lr.titulo AS libro_recibido_titulo
		FROM intercambio i
		JOIN libro lo ON i.libro_ofrecido_id = lo.idLibro
		JOIN libro lr ON i.libro_recibido_id = lr.idLibro
		ORDER BY i.fecha DESC, i.idIntercambio DESC LIMIT 6`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}
	defer filas.Close()
	for filas.Next() {
		var i intercambioDetalle
		if err := filas.Scan(&i.ID, &i.LibroOfrecidoID, &i.LibroRecibidoID, &i.UsuarioOrigenID,
			&i.UsuarioDestinoID, &i.Estado, &i.Fecha,
			&i.LibroOfrecidoTitulo, &i.LibroRecibidoTitulo); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar estadísticas"})
			return
		}
		intercambiosRecientes = append(intercambiosRecientes, i)
	}

	c.JSON(http.StatusOK, gin.H{
		"users":           usuarios,
		"books":           libros,
		"exchanges":       intercambios,
		"recentBooks":     librosRecientes,
		"recentExchanges": intercambiosRecientes,
	})
}
