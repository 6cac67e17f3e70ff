package engine

import "fmt"

// Validation error codes surfaced to the API boundary.
const (
	CodeArchiefactiedatum       = "archiefactiedatum-error"
	CodeArchiefnominatieNotSet  = "archiefnominatie-not-set"
	CodeArchiefactiedatumNotSet = "archiefactiedatum-not-set"
	CodeDocumentsNotArchived    = "documents-not-archived"
	CodeDocumentsLocked         = "documents-locked"
	CodeDeelzaakAlsHoofdzaak    = "deelzaak-als-hoofdzaak"
	CodeSelfForbidden           = "self-forbidden"
	CodeBetalingNvt             = "betaling-nvt"
	CodePendingRelations        = "pending-relations"
	CodeIdentificatieNietUniek  = "identificatie-niet-uniek"
	CodeStatusNietUniek         = "status-niet-uniek"
	CodeResultaatOntbreekt      = "resultaat-ontbreekt"
	CodeZaaktypeMismatch        = "zaaktype-mismatch"
	CodeRegistry                = "registry-error"
)

// ValidationError is a request-level invariant violation; nothing was
// persisted when one is returned.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) ValidationError {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// DerivationError means a brondatum strategy could not compute a source date
// because configuration or referenced data is missing or malformed.
type DerivationError struct {
	Afleidingswijze string
	Reason          string
}

func (e DerivationError) Error() string {
	return fmt.Sprintf("brondatum (%s): %s", e.Afleidingswijze, e.Reason)
}

// NotImplementedError marks derivation strategies that are declared but not
// supported. These fail loudly so a missing archival date is never masked.
type NotImplementedError struct {
	Afleidingswijze string
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("afleidingswijze %s is niet geimplementeerd", e.Afleidingswijze)
}
