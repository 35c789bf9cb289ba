package api

import (
	"net/http"
	"testing"
)

func TestEstadisticasPublicas(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")
	crearLibroDePrueba(t, "El Aleph", ana, "disponible")
	crearLibroDePrueba(t, "Rayuela", ana, "prestado")

	w := hacerPeticion(t, router, http.MethodGet, "/public/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("esperaba 200, llegó %d (%s)", w.Code, w.Body.String())
	}
	stats := decodificar(t, w)
	if stats["users"].(float64) != 1 || stats["books"].(float64) != 2 {
		t.Fatalf("conteos inesperados: %s", w.Body.String())
	}
	if recientes := stats["recentBooks"].([]interface{}); len(recientes) != 2 {
		t.Fatalf("esperaba 2 libros recientes, llegaron %d", len(recientes))
	}

	// La segunda lectura sale del caché y devuelve las mismas cifras aunque la
	// base haya cambiado entretanto.
	crearLibroDePrueba(t, "Ficciones", ana, "disponible")
	w = hacerPeticion(t, router, http.MethodGet, "/public/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("lectura cacheada: esperaba 200, llegó %d", w.Code)
	}
	if decodificar(t, w)["books"].(float64) != 2 {
		t.Fatalf("la lectura cacheada debía conservar las cifras: %s", w.Body.String())
	}
}

func TestEstadisticasAdmin(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")
	admin := crearUsuarioDePrueba(t, "Root", "root@example.com", "root")
	crearLibroDePrueba(t, "El Aleph", ana, "disponible")

	w := hacerPeticion(t, router, http.MethodGet, "/admin/stats", nil, tokenDePrueba(t, ana, "usuario"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("usuario común: esperaba 403, llegó %d", w.Code)
	}

	w = hacerPeticion(t, router, http.MethodGet, "/admin/stats", nil, tokenDePrueba(t, admin, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("admin: esperaba 200, llegó %d (%s)", w.Code, w.Body.String())
	}
	stats := decodificar(t, w)
	if stats["users"].(float64) != 2 || stats["books"].(float64) != 1 || stats["exchanges"].(float64) != 0 {
		t.Fatalf("conteos inesperados: %s", w.Body.String())
	}
	if _, existe := stats["recentBooks"]; !existe {
		t.Fatalf("falta recentBooks: %s", w.Body.String())
	}
}
