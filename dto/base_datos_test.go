package dto

import (
	"path/filepath"
	"testing"
)

func baseDePrueba(t *testing.T) {
	t.Helper()
	db, err := AbrirBaseDatos("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("abrir base de prueba: %v", err)
	}
	DB = db
	t.Cleanup(func() { db.Close() })
}

func TestEsquemaValoresPorDefecto(t *testing.T) {
	baseDePrueba(t)

	if _, err := DB.Exec(
		"INSERT INTO usuario (nombre, apellido, email, username, contrasena) VALUES (?, ?, ?, ?, ?)",
		"Ana", "García", "ana@example.com", "anag", "hash"); err != nil {
		t.Fatalf("insertar usuario: %v", err)
	}

	var tipo string
	if err := DB.QueryRow("SELECT tipoUsuario FROM usuario WHERE email = ?", "ana@example.com").Scan(&tipo); err != nil {
		t.Fatalf("consultar usuario: %v", err)
	}
	if tipo != "usuario" {
		t.Fatalf("tipoUsuario por defecto debía ser usuario, llegó %q", tipo)
	}

	if _, err := DB.Exec(
		"INSERT INTO libro (titulo, autor, genero, idUsuario) VALUES (?, ?, ?, 1)",
		"El Aleph", "Borges", "Cuento"); err != nil {
		t.Fatalf("insertar libro: %v", err)
	}
	var estado string
	if err := DB.QueryRow("SELECT estado FROM libro WHERE idLibro = 1").Scan(&estado); err != nil {
		t.Fatalf("consultar libro: %v", err)
	}
	if estado != "disponible" {
		t.Fatalf("estado por defecto debía ser disponible, llegó %q", estado)
	}
}

func TestEsquemaEmailUnico(t *testing.T) {
	baseDePrueba(t)

	insertar := func() error {
		_, err := DB.Exec(
			"INSERT INTO usuario (nombre, apellido, email, username, contrasena) VALUES (?, ?, ?, ?, ?)",
			"Ana", "García", "ana@example.com", "anag", "hash")
		return err
	}

	if err := insertar(); err != nil {
		t.Fatalf("primer insert: %v", err)
	}
	if err := insertar(); err == nil {
		t.Fatal("el email repetido debía violar la restricción de unicidad")
	}
}
