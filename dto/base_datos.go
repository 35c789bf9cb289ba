// Configuración de conexión a la base de datos.

package dto

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// AbrirBaseDatos abre la conexión con el driver indicado y crea el esquema.
// El servidor usa mysql; las pruebas y el modo local usan sqlite3.
func AbrirBaseDatos(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping a la base de datos: %w", err)
	}
	if err := CrearEsquema(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConectarBaseDatos inicializa la conexión global según las variables de entorno.
func ConectarBaseDatos() {
	driver := obtenerEnv("DB_DRIVER", "mysql")

	var dsn string
	if driver == "sqlite3" {
		dsn = obtenerEnv("DB_PATH", "bookexchange.db")
	} else {
		usuario := obtenerEnv("DB_USER", "root")
		contrasena := os.Getenv("DB_PASSWORD")
		host := obtenerEnv("DB_HOST", "127.0.0.1")
		puerto := obtenerEnv("DB_PORT", "3306")
		nombre := obtenerEnv("DB_NAME", "bookexchange")
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			usuario, contrasena, host, puerto, nombre)
	}

	var err error
	DB, err = AbrirBaseDatos(driver, dsn)
	if err != nil {
		log.Fatal("Error al conectar la base de datos:", err)
	}
}

// obtenerEnv devuelve una variable de entorno o un valor por defecto.
func obtenerEnv(clave, porDefecto string) string {
	if valor := os.Getenv(clave); valor != "" {
		return valor
	}
	return porDefecto
}
