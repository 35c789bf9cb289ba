package api

import (
	"fmt"
	"net/http"
	"testing"

	"bookexchange/dto"

	"github.com/gin-gonic/gin"
)

func crearPuntoDePrueba(t *testing.T, router *gin.Engine, usuario int32, nombre string) int32 {
	t.Helper()
	w := hacerPeticion(t, router, http.MethodPost, "/puntos-entrega", gin.H{
		"idUsuario": usuario,
		"nombre":    nombre,
		"direccion": "Calle Falsa 123",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("crear punto %q: esperaba 201, llegó %d (%s)", nombre, w.Code, w.Body.String())
	}
	return int32(decodificar(t, w)["idPuntoEntrega"].(float64))
}

func TestCrearYListarPuntosEntrega(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")

	w := hacerPeticion(t, router, http.MethodPost, "/puntos-entrega",
		gin.H{"idUsuario": ana, "nombre": "Sin dirección"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("incompleto: esperaba 400, llegó %d", w.Code)
	}

	crearPuntoDePrueba(t, router, ana, "Plaza Central")
	crearPuntoDePrueba(t, router, ana, "Biblioteca Municipal")

	w = hacerPeticion(t, router, http.MethodGet, "/puntos-entrega", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("sin userId: esperaba 400, llegó %d", w.Code)
	}

	w = hacerPeticion(t, router, http.MethodGet, fmt.Sprintf("/puntos-entrega?userId=%d", ana), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("listar: esperaba 200, llegó %d (%s)", w.Code, w.Body.String())
	}
	if lista := decodificarLista(t, w); len(lista) != 2 {
		t.Fatalf("esperaba 2 puntos, llegaron %d", len(lista))
	}
}

// Marcar un punto como predeterminado desmarca solo los demás puntos del mismo
// usuario. Los de otros usuarios no se tocan.
func TestPredeterminadoPorUsuario(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")
	luis := crearUsuarioDePrueba(t, "Luis", "luis@example.com", "luisr")

	puntoAna1 := crearPuntoDePrueba(t, router, ana, "Plaza Central")
	puntoAna2 := crearPuntoDePrueba(t, router, ana, "Biblioteca")
	puntoLuis := crearPuntoDePrueba(t, router, luis, "Estación")

	marcar := func(id int32, nombre string) {
		w := hacerPeticion(t, router, http.MethodPut, fmt.Sprintf("/puntos-entrega/%d", id), gin.H{
			"nombre":            nombre,
			"direccion":         "Calle Falsa 123",
			"es_predeterminado": true,
		}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("marcar %d: esperaba 200, llegó %d (%s)", id, w.Code, w.Body.String())
		}
	}
	predeterminado := func(id int32) bool {
		var valor bool
		if err := dto.DB.QueryRow(
			"SELECT es_predeterminado FROM punto_entrega WHERE idPuntoEntrega = ?", id).Scan(&valor); err != nil {
			t.Fatalf("consultar punto %d: %v", id, err)
		}
		return valor
	}

	marcar(puntoLuis, "Estación")
	marcar(puntoAna1, "Plaza Central")
	marcar(puntoAna2, "Biblioteca")

	if predeterminado(puntoAna1) {
		t.Fatal("el primer punto de Ana debía quedar desmarcado")
	}
	if !predeterminado(puntoAna2) {
		t.Fatal("el segundo punto de Ana debía quedar predeterminado")
	}
	if !predeterminado(puntoLuis) {
		t.Fatal("el predeterminado de Luis no debía tocarse")
	}
}

func TestEliminarPuntoEntrega(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")
	punto := crearPuntoDePrueba(t, router, ana, "Plaza Central")

	w := hacerPeticion(t, router, http.MethodDelete, fmt.Sprintf("/puntos-entrega/%d", punto), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("eliminar: esperaba 200, llegó %d", w.Code)
	}

	w = hacerPeticion(t, router, http.MethodDelete, fmt.Sprintf("/puntos-entrega/%d", punto), nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("ya eliminado: esperaba 404, llegó %d", w.Code)
	}
}

// Un fallo real del almacenamiento no debe disfrazarse de 404.
func TestActualizarPuntoConAlmacenamientoRoto(t *testing.T) {
	router := servidorDePrueba(t)
	ana := crearUsuarioDePrueba(t, "Ana", "ana@example.com", "anag")
	punto := crearPuntoDePrueba(t, router, ana, "Plaza Central")

	if _, err := dto.DB.Exec("DROP TABLE punto_entrega"); err != nil {
		t.Fatalf("romper almacenamiento: %v", err)
	}

	w := hacerPeticion(t, router, http.MethodPut, fmt.Sprintf("/puntos-entrega/%d", punto), gin.H{
		"nombre":    "Plaza Central",
		"direccion": "Calle Falsa 123",
	}, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("esperaba 500, llegó %d (%s)", w.Code, w.Body.String())
	}
}

func TestActualizarPuntoInexistente(t *testing.T) {
	router := servidorDePrueba(t)

	w := hacerPeticion(t, router, http.MethodPut, "/puntos-entrega/999", gin.H{
		"nombre":    "Fantasma",
		"direccion": "Ninguna",
	}, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, llegó %d", w.Code)
	}
}
