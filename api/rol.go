package api

import "strings"

// EsAdmin normaliza el rol recibido (coincidencia exacta, recortada o sin
// distinguir mayúsculas) y decide si corresponde a un administrador.
func EsAdmin(rol interface{}) bool {
	texto, ok := rol.(string)
	if !ok {
		return false
	}
	if texto == "admin" {
		return true
	}
	texto = strings.TrimSpace(texto)
	if texto == "admin" {
		return true
	}
	return strings.EqualFold(texto, "admin")
}
