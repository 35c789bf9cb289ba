// Archivo principal para iniciar la conexión a la base de datos y el servidor.

package main

import (
	"log"
	"os"

	"bookexchange/api"
	"bookexchange/dto"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Sin archivo .env, se usan las variables de entorno del sistema")
	}

	dto.ConectarBaseDatos()

	puerto := os.Getenv("PORT")
	if puerto == "" {
		puerto = "8080"
	}

	router := api.InicializarServidor()
	if err := router.Run(":" + puerto); err != nil {
		log.Fatal("No se pudo iniciar el servidor:", err)
	}
}
