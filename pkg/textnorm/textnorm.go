// Package textnorm normaliza texto para búsquedas insensibles a acentos:
// los nombres de artículo llegan con tildes ("lápiz", "azúcar") y los criterios
// de búsqueda casi nunca.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize devuelve el texto en minúsculas y sin marcas diacríticas.
// Si la transformación falla (entrada no UTF-8 válida), devuelve la entrada en minúsculas.
func Normalize(s string) string {
	out, _, err := transform.String(fold, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
