package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/pkg/textnorm"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Lápiz":          "lapiz",
		"AZÚCAR":         "azucar",
		"café con leche": "cafe con leche",
		"Ñandú":          "nandu", // NFD descompone la ñ y la marca combinante se elimina
		"sin tildes":     "sin tildes",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.Normalize(in), "entrada %q", in)
	}
}

func TestNormalize_Idempotente(t *testing.T) {
	once := textnorm.Normalize("Camión Eléctrico")
	assert.Equal(t, once, textnorm.Normalize(once))
}
