package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

// servidorDePrueba levanta el router contra una base sqlite temporal.
func servidorDePrueba(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := dto.AbrirBaseDatos("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("abrir base de prueba: %v", err)
	}
	dto.DB = db
	cachePublica.Delete("public-stats")
	t.Cleanup(func() { db.Close() })

	return InicializarServidor()
}

func hacerPeticion(t *testing.T, router *gin.Engine, metodo, ruta string, cuerpo interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var lector *bytes.Reader
	if cuerpo != nil {
		datos, err := json.Marshal(cuerpo)
		if err != nil {
			t.Fatalf("serializar cuerpo: %v", err)
		}
		lector = bytes.NewReader(datos)
	} else {
		lector = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(metodo, ruta, lector)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodificar(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var datos map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &datos); err != nil {
		t.Fatalf("decodificar respuesta %q: %v", w.Body.String(), err)
	}
	return datos
}

func decodificarLista(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var datos []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &datos); err != nil {
		t.Fatalf("decodificar lista %q: %v", w.Body.String(), err)
	}
	return datos
}

// crearUsuarioDePrueba inserta un usuario directamente y devuelve su id.
func crearUsuarioDePrueba(t *testing.T, nombre, email, username string) int32 {
	t.Helper()
	resultado, err := dto.DB.Exec(
		"INSERT INTO usuario (nombre, apellido, email, username, contrasena) VALUES (?, ?, ?, ?, ?)",
		nombre, "Apellido", email, username, "hash-de-prueba")
	if err != nil {
		t.Fatalf("crear usuario: %v", err)
	}
	id, _ := resultado.LastInsertId()
	return int32(id)
}

func crearLibroDePrueba(t *testing.T, titulo string, dueno int32, estado string) int32 {
	t.Helper()
	resultado, err := dto.DB.Exec(
		"INSERT INTO libro (titulo, autor, genero, idUsuario, estado) VALUES (?, ?, ?, ?, ?)",
		titulo, "Autor", "Ficción", dueno, estado)
	if err != nil {
		t.Fatalf("crear libro: %v", err)
	}
	id, _ := resultado.LastInsertId()
	return int32(id)
}

func tokenDePrueba(t *testing.T, id int32, rol string) string {
	t.Helper()
	token, err := generarToken(&dto.Usuario{ID: id, Nombre: "Prueba", TipoUsuario: rol})
	if err != nil {
		t.Fatalf("generar token: %v", err)
	}
	return token
}

func TestHealth(t *testing.T) {
	router := servidorDePrueba(t)
	w := hacerPeticion(t, router, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health: esperaba 200, llegó %d", w.Code)
	}
}
