package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isRetryableTxError detecta fallos de serialización (40001) o deadlock (40P01):
// la transacción puede reintentarse con una relectura fresca.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isConnectionError detecta fallos de conexión (clase 08) o pool cerrado.
func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return false
}

// mapStorageErr clasifica errores de infraestructura hacia los sentinelas de dominio:
// conflicto serializable -> ErrConflict, fallo de conexión -> ErrUnavailable,
// el resto se envuelve con la operación.
func mapStorageErr(op string, err error) error {
	switch {
	case isRetryableTxError(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case isConnectionError(err):
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
