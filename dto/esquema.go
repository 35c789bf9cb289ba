// Creación del esquema relacional: usuario, libro, intercambio y punto_entrega.

package dto

import "database/sql"

// CrearEsquema crea las tablas si no existen. El DDL difiere entre mysql y
// sqlite3 solo en la declaración de las claves autoincrementales.
func CrearEsquema(db *sql.DB, driver string) error {
	pk := "INT AUTO_INCREMENT PRIMARY KEY"
	if driver == "sqlite3" {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	tablas := []string{
		`CREATE TABLE IF NOT EXISTS usuario (
			idUsuario ` + pk + `,
			nombre VARCHAR(100) NOT NULL,
			apellido VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			username VARCHAR(100) NOT NULL UNIQUE,
			contrasena VARCHAR(255) NOT NULL,
			tipoUsuario VARCHAR(20) NOT NULL DEFAULT 'usuario',
			telefono BIGINT,
			direccion VARCHAR(255),
			fecha_creacion TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS libro (
			idLibro ` + pk + `,
			titulo VARCHAR(255) NOT NULL,
			autor VARCHAR(255) NOT NULL,
			genero VARCHAR(100) NOT NULL,
			anio INT,
			editorial VARCHAR(255),
			descripcion TEXT,
			img_url VARCHAR(500),
			estado VARCHAR(20) NOT NULL DEFAULT 'disponible',
			idUsuario INT NOT NULL REFERENCES usuario(idUsuario),
			fecha_creacion TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS intercambio (
			idIntercambio ` + pk + `,
			libro_ofrecido_id INT NOT NULL REFERENCES libro(idLibro),
			libro_recibido_id INT NOT NULL REFERENCES libro(idLibro),
			usuario_origen_id INT NOT NULL REFERENCES usuario(idUsuario),
			usuario_destino_id INT NOT NULL REFERENCES usuario(idUsuario),
			estado VARCHAR(20) NOT NULL DEFAULT 'pendiente',
			fecha TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS punto_entrega (
			idPuntoEntrega ` + pk + `,
			idUsuario INT NOT NULL REFERENCES usuario(idUsuario),
			nombre VARCHAR(100) NOT NULL,
			direccion VARCHAR(255) NOT NULL,
			ciudad VARCHAR(100),
			provincia VARCHAR(100),
			codigo_postal VARCHAR(20),
			referencia VARCHAR(255),
			es_predeterminado BOOLEAN NOT NULL DEFAULT FALSE,
			fecha_creacion TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, ddl := range tablas {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
