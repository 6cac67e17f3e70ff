package engine

import (
	"context"
	"errors"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
)

const documentStatusGearchiveerd = "gearchiveerd"

// validateArchivering guards transitions of archiefstatus away from
// nog_te_archiveren. The merged state (current zaak with the requested
// changes applied) is what gets validated, so a single request may set the
// status together with the fields that make it legal.
func (e Engine) validateArchivering(ctx context.Context, merged domain.Zaak) error {
	if merged.Archiefstatus == domain.ArchiefstatusNogTeArchiveren {
		return nil
	}
	if merged.Archiefnominatie == nil || *merged.Archiefnominatie == "" {
		return invalid(CodeArchiefnominatieNotSet,
			"archiefnominatie moet gezet zijn voordat archiefstatus kan wijzigen")
	}
	if merged.Archiefactiedatum == nil || *merged.Archiefactiedatum == "" {
		return invalid(CodeArchiefactiedatumNotSet,
			"archiefactiedatum moet gezet zijn voordat archiefstatus kan wijzigen")
	}
	return e.checkDocumenten(ctx, merged.ID, false)
}

// checkDocumenten verifies every linked informatieobject reports the archived
// state externally. Closing a zaak additionally requires the documents to be
// unlocked.
func (e Engine) checkDocumenten(ctx context.Context, zaakID string, requireUnlocked bool) error {
	zios, err := e.Repo.ListZaakInformatieObjecten(ctx, zaakID)
	if err != nil {
		return err
	}
	for _, zio := range zios {
		doc, err := e.Registry.Document(ctx, zio.InformatieObject)
		if err != nil {
			return err
		}
		if doc.Status != documentStatusGearchiveerd {
			return invalid(CodeDocumentsNotArchived,
				"informatieobject %s heeft status %q, verwacht %q", zio.InformatieObject, doc.Status, documentStatusGearchiveerd)
		}
		if requireUnlocked && doc.Locked {
			return invalid(CodeDocumentsLocked, "informatieobject %s is gelockt", zio.InformatieObject)
		}
	}
	return nil
}

// validateBetaling rejects a payment date on a zaak marked not applicable.
func validateBetaling(merged domain.Zaak) error {
	if merged.LaatsteBetaaldatum != nil && *merged.LaatsteBetaaldatum != "" &&
		merged.Betalingsindicatie == domain.BetalingNvt {
		return invalid(CodeBetalingNvt,
			"laatste_betaaldatum kan niet gezet worden bij betalingsindicatie nvt")
	}
	return nil
}

// validateHoofdzaak enforces the single-level zaak hierarchy: a zaak cannot
// be its own hoofdzaak, the hoofdzaak must exist, may not itself be a
// deelzaak, and a zaak with deelzaken cannot become a deelzaak.
func (e Engine) validateHoofdzaak(ctx context.Context, zaakID, hoofdzaakID string) error {
	if hoofdzaakID == zaakID {
		return invalid(CodeSelfForbidden, "zaak kan niet zijn eigen hoofdzaak zijn")
	}
	hoofdzaak, err := e.Repo.GetZaak(ctx, hoofdzaakID)
	if errors.Is(err, repo.ErrNotFound) {
		return invalid("hoofdzaak-bestaat-niet", "hoofdzaak %s bestaat niet", hoofdzaakID)
	}
	if err != nil {
		return err
	}
	if hoofdzaak.Hoofdzaak != nil && *hoofdzaak.Hoofdzaak != "" {
		return invalid(CodeDeelzaakAlsHoofdzaak, "hoofdzaak %s is zelf een deelzaak", hoofdzaakID)
	}
	if zaakID != "" {
		deelzaken, err := e.Repo.ListDeelzaken(ctx, zaakID)
		if err != nil {
			return err
		}
		if len(deelzaken) > 0 {
			return invalid(CodeDeelzaakAlsHoofdzaak, "zaak met deelzaken kan zelf geen deelzaak worden")
		}
	}
	return nil
}
