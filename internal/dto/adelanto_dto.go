package dto

import "github.com/shopspring/decimal"

// AgregarAdelantoRequest is the input for the append operation. It arrives
// as a multipart form so the photo travels with the fields; Foto stays nil
// when no file was attached.
type AgregarAdelantoRequest struct {
	Valor       decimal.Decimal `json:"valor"`
	Fecha       string          `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Foto        []byte          `json:"-"`
	FotoNombre  string          `json:"-"`
}
