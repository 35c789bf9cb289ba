// Definición de estructuras de datos principales: Usuario, Libro, Intercambio, PuntoEntrega.

package dto

import (
	"database/sql"
)

type Usuario struct {
	ID            int32          `json:"idUsuario"`
	Nombre        string         `json:"nombre"`
	Apellido      string         `json:"apellido"`
	Email         string         `json:"email"`
	Username      string         `json:"username"`
	Contrasena    string         `json:"-"`
	TipoUsuario   string         `json:"tipoUsuario"` // usuario o admin
	Telefono      sql.NullInt64  `json:"telefono"`
	Direccion     sql.NullString `json:"direccion"`
	FechaCreacion sql.NullTime   `json:"fecha_creacion"`
}

type Libro struct {
	ID            int32          `json:"idLibro"`
	Titulo        string         `json:"titulo"`
	Autor         string         `json:"autor"`
	Genero        string         `json:"genero"`
	Anio          sql.NullInt64  `json:"anio"`
	Editorial     sql.NullString `json:"editorial"`
	Descripcion   sql.NullString `json:"descripcion"`
	ImgURL        sql.NullString `json:"img_url"`
	Estado        string         `json:"estado"` // disponible, intercambiado o prestado
	UsuarioID     int32          `json:"idUsuario"`
	FechaCreacion sql.NullTime   `json:"fecha_creacion"`
}

type Intercambio struct {
	ID               int32        `json:"idIntercambio"`
	LibroOfrecidoID  int32        `json:"libro_ofrecido_id"`
	LibroRecibidoID  int32        `json:"libro_recibido_id"`
	UsuarioOrigenID  int32        `json:"usuario_origen_id"`
	UsuarioDestinoID int32        `json:"usuario_destino_id"`
	Estado           string       `json:"estado"` // pendiente, aceptado o rechazado
	Fecha            sql.NullTime `json:"fecha"`
}

type PuntoEntrega struct {
	ID               int32          `json:"idPuntoEntrega"`
	UsuarioID        int32          `json:"idUsuario"`
	Nombre           string         `json:"nombre"`
	Direccion        string         `json:"direccion"`
	Ciudad           sql.NullString `json:"ciudad"`
	Provincia        sql.NullString `json:"provincia"`
	CodigoPostal     sql.NullString `json:"codigo_postal"`
	Referencia       sql.NullString `json:"referencia"`
	EsPredeterminado bool           `json:"es_predeterminado"`
	FechaCreacion    sql.NullTime   `json:"fecha_creacion"`
}
