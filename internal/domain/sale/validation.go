package sale

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ErrInvalidSale agrupa errores de validación de los campos de una venta.
var ErrInvalidSale = errors.New("venta inválida")

// DNILength longitud del documento de identidad del cliente.
const DNILength = 8

// MaxAmount cota exclusiva del monto; la columna es NUMERIC(10,2).
var MaxAmount = decimal.New(1, 8)

// ValidateAdvisorFields valida los campos que registra el asesor.
func ValidateAdvisorFields(s *entity.Sale) error {
	if s == nil {
		return fmt.Errorf("%w: venta nula", ErrInvalidSale)
	}
	var errs []error

	if s.Modality != entity.ModalityCallCenter && s.Modality != entity.ModalityCampo {
		errs = append(errs, fmt.Errorf("modalidad %q no válida", s.Modality))
	}
	if s.Shift != entity.ShiftManana && s.Shift != entity.ShiftTarde {
		errs = append(errs, fmt.Errorf("turno %q no válido", s.Shift))
	}
	if strings.TrimSpace(s.ClientName) == "" {
		errs = append(errs, errors.New("nombre del cliente requerido"))
	}
	if !isDNI(s.ClientDNI) {
		errs = append(errs, fmt.Errorf("DNI debe tener %d dígitos", DNILength))
	}
	if strings.TrimSpace(s.ClientPhone) == "" {
		errs = append(errs, errors.New("teléfono del cliente requerido"))
	}
	if s.ClientEmail != "" {
		if _, err := mail.ParseAddress(s.ClientEmail); err != nil {
			errs = append(errs, fmt.Errorf("correo %q no válido", s.ClientEmail))
		}
	}
	if s.ClientGender != entity.GenderMale && s.ClientGender != entity.GenderFemale {
		errs = append(errs, fmt.Errorf("género %q no válido", s.ClientGender))
	}
	if strings.TrimSpace(s.ProductService) == "" {
		errs = append(errs, errors.New("producto/servicio requerido"))
	}
	if !s.Amount.GreaterThan(decimal.Zero) {
		errs = append(errs, errors.New("el monto debe ser mayor a cero"))
	}
	if s.Amount.GreaterThanOrEqual(MaxAmount) {
		errs = append(errs, fmt.Errorf("el monto debe ser menor a %s", MaxAmount.String()))
	}
	if !s.Amount.Equal(s.Amount.Round(2)) {
		errs = append(errs, errors.New("el monto admite como máximo 2 decimales"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidSale}, errs...)...)
	}
	return nil
}

func isDNI(s string) bool {
	if len(s) != DNILength {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
