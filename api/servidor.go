package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InicializarServidor() *gin.Engine {
	router := gin.Default()

	// Middleware CORS para el frontend
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// RUTAS PÚBLICAS
	router.POST("/auth/register", RegistrarUsuario)
	router.POST("/auth/login", LoginUsuario)
	router.POST("/auth/logout", CerrarSesion)

	// El catálogo muestra más libros cuando hay sesión, pero no la exige.
	router.GET("/books", AutenticacionOpcional(), ListarLibros)
	router.GET("/books/:id", ObtenerLibro)
	// Las mutaciones de libros validan al dueño contra el idUsuario del cuerpo.
	router.POST("/books", CrearLibro)
	router.PUT("/books/:id", ActualizarLibro)
	router.DELETE("/books/:id", EliminarLibro)

	router.GET("/intercambios", ListarIntercambios)
	router.POST("/intercambios", CrearIntercambio)
	router.GET("/intercambios/:id", ObtenerIntercambio)
	router.PUT("/intercambios/:id", ActualizarIntercambio)
	router.GET("/intercambios/:id/comprobante", GenerarComprobantePDF)

	router.GET("/users/:id", ObtenerUsuario)
	router.GET("/users/:id/books", LibrosDeUsuario)
	router.GET("/users/:id/exchanges", IntercambiosDeUsuario)

	router.GET("/puntos-entrega", ListarPuntosEntrega)
	router.POST("/puntos-entrega", CrearPuntoEntrega)
	router.PUT("/puntos-entrega/:id", ActualizarPuntoEntrega)
	router.DELETE("/puntos-entrega/:id", EliminarPuntoEntrega)

	router.GET("/public/stats", EstadisticasPublicas)

	// RUTAS PROTEGIDAS
	autorizado := router.Group("/")
	autorizado.Use(Autenticar())

	autorizado.GET("/auth/me", VerMiPerfil)
	autorizado.GET("/users", ListarUsuarios)
	autorizado.PUT("/users/:id", ActualizarUsuario)
	autorizado.DELETE("/users/:id", EliminarUsuario)
	autorizado.POST("/notificaciones/:id", EnviarNotificacion)

	autorizado.GET("/admin/stats", EstadisticasAdmin)
	autorizado.POST("/admin/set-admin", NombrarAdmin)

	return router
}
