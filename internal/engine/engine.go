package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/config"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine/auth"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/events"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/registry"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
)

// Engine holds the zaak lifecycle operations. Every mutation resolves its
// external registry lookups first, then applies all writes plus the event row
// in one transaction.
type Engine struct {
	DB       *sql.DB
	Repo     repo.Repo
	Events   events.Writer
	Registry registry.Client
	Config   *config.Config
	Now      func() time.Time
}

func New(db *sql.DB, cfg *config.Config, reg registry.Client) Engine {
	return Engine{
		DB:       db,
		Repo:     repo.Repo{DB: db},
		Events:   events.Writer{DB: db},
		Registry: reg,
		Config:   cfg,
		Now:      time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) ts() string { return e.now().UTC().Format(time.RFC3339) }

func (e Engine) calculator() Calculator {
	return Calculator{Repo: e.Repo, Registry: e.Registry}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

type ZaakCreateOptions struct {
	Bronorganisatie     string
	Identificatie       string
	Zaaktype            string
	Omschrijving        string
	Registratiedatum    string
	Startdatum          string
	EinddatumGepland    string
	UiterlijkeEinddatum string
	Hoofdzaak           string
	Betalingsindicatie  string
	ActorID             string
}

func (e Engine) CreateZaak(ctx context.Context, opts ZaakCreateOptions) (domain.Zaak, error) {
	if opts.Bronorganisatie == "" {
		return domain.Zaak{}, invalid("required", "bronorganisatie is verplicht")
	}
	if opts.Zaaktype == "" {
		return domain.Zaak{}, invalid("required", "zaaktype is verplicht")
	}
	if opts.Startdatum == "" {
		return domain.Zaak{}, invalid("required", "startdatum is verplicht")
	}
	if _, err := parseDag(opts.Startdatum); err != nil {
		return domain.Zaak{}, invalid("invalid-date", "startdatum: %v", err)
	}
	if opts.Registratiedatum == "" {
		opts.Registratiedatum = e.now().UTC().Format(dagFormat)
	}
	if opts.Identificatie == "" {
		opts.Identificatie = e.nieuweIdentificatie()
	}

	ts := e.ts()
	zaak := domain.Zaak{
		ID:                  uuid.NewString(),
		Identificatie:       opts.Identificatie,
		Bronorganisatie:     opts.Bronorganisatie,
		Zaaktype:            opts.Zaaktype,
		Omschrijving:        opts.Omschrijving,
		Registratiedatum:    opts.Registratiedatum,
		Startdatum:          opts.Startdatum,
		EinddatumGepland:    optional(opts.EinddatumGepland),
		UiterlijkeEinddatum: optional(opts.UiterlijkeEinddatum),
		Hoofdzaak:           optional(opts.Hoofdzaak),
		Betalingsindicatie:  opts.Betalingsindicatie,
		Archiefstatus:       domain.ArchiefstatusNogTeArchiveren,
		CreatedAt:           ts,
		UpdatedAt:           ts,
	}
	if zaak.Hoofdzaak != nil {
		if err := e.validateHoofdzaak(ctx, zaak.ID, *zaak.Hoofdzaak); err != nil {
			return domain.Zaak{}, err
		}
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Zaak{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertZaakTx(ctx, tx, zaak); err != nil {
		if repo.IsDuplicateZaak(err) {
			return domain.Zaak{}, invalid(CodeIdentificatieNietUniek,
				"identificatie %s bestaat al binnen bronorganisatie %s", zaak.Identificatie, zaak.Bronorganisatie)
		}
		return domain.Zaak{}, err
	}
	err = e.Events.Append(ctx, tx, "zaak.aangemaakt", zaak.ID, "zaak", zaak.ID, opts.ActorID,
		events.EventPayload{"identificatie": zaak.Identificatie, "zaaktype": zaak.Zaaktype})
	if err != nil {
		return domain.Zaak{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Zaak{}, err
	}
	return zaak, nil
}

func (e Engine) nieuweIdentificatie() string {
	prefix := "ZAAK"
	if e.Config != nil && e.Config.Zaakidentificatie.Prefix != "" {
		prefix = e.Config.Zaakidentificatie.Prefix
	}
	year := e.now().UTC().Format("2006")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("%s-%s-%s", prefix, year, suffix)
}

type StatusAddOptions struct {
	ZaakID           string
	Statustype       string
	DatumStatusGezet string
	Toelichting      string
	ActorID          string
	// Elevated callers hold zaken.statussen.toevoegen and may add follow-up
	// statuses; without it only the initial status is allowed.
	Elevated bool
	// Reopen callers hold zaken.heropenen and may add a status to a closed
	// zaak, which clears the archival fields again for a non-eindstatus.
	Reopen bool
}

// AddStatus registers a status and drives the zaak lifecycle: an eindstatus
// closes the zaak and derives archiefnominatie and archiefactiedatum, a
// regular status on a closed zaak reopens it.
func (e Engine) AddStatus(ctx context.Context, opts StatusAddOptions) (domain.Status, error) {
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.Status{}, err
	}
	if opts.DatumStatusGezet == "" {
		return domain.Status{}, invalid("required", "datum_status_gezet is verplicht")
	}
	datum, err := parseDag(opts.DatumStatusGezet)
	if err != nil {
		return domain.Status{}, invalid("invalid-date", "datum_status_gezet: %v", err)
	}
	if zaak.Gesloten() && !opts.Reopen {
		return domain.Status{}, auth.ForbiddenError{Scope: auth.ScopeZakenHeropenen}
	}

	st, err := e.Registry.StatusType(ctx, opts.Statustype)
	if err != nil {
		return domain.Status{}, err
	}
	if st.Zaaktype != "" && st.Zaaktype != zaak.Zaaktype {
		return domain.Status{}, invalid(CodeZaaktypeMismatch,
			"statustype %s hoort niet bij zaaktype %s", opts.Statustype, zaak.Zaaktype)
	}

	updated := zaak
	sluiten := st.IsEindstatus
	heropenen := false
	switch {
	case sluiten:
		res, err := e.Repo.GetResultaatByZaak(ctx, zaak.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Status{}, invalid(CodeResultaatOntbreekt,
				"zaak kan niet gesloten worden zonder resultaat")
		}
		if err != nil {
			return domain.Status{}, err
		}
		rt, err := e.Registry.ResultaatType(ctx, res.Resultaattype)
		if err != nil {
			return domain.Status{}, err
		}
		if err := e.checkDocumenten(ctx, zaak.ID, true); err != nil {
			return domain.Status{}, err
		}
		updated.Einddatum = &datum
		if updated.Archiefnominatie == nil || *updated.Archiefnominatie == "" {
			updated.Archiefnominatie = optional(e.calculator().Archiefnominatie(rt))
		}
		if updated.Archiefactiedatum == nil || *updated.Archiefactiedatum == "" {
			actiedatum, err := e.calculator().Archiefactiedatum(ctx, updated, datum, rt)
			if err != nil {
				return domain.Status{}, err
			}
			updated.Archiefactiedatum = actiedatum
		}
	case zaak.Gesloten():
		heropenen = true
		updated.Einddatum = nil
		updated.Archiefnominatie = nil
		updated.Archiefactiedatum = nil
		updated.Archiefstatus = domain.ArchiefstatusNogTeArchiveren
	}

	ts := e.ts()
	status := domain.Status{
		ID:               uuid.NewString(),
		ZaakID:           zaak.ID,
		Statustype:       opts.Statustype,
		DatumStatusGezet: opts.DatumStatusGezet,
		Toelichting:      opts.Toelichting,
		CreatedAt:        ts,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Status{}, err
	}
	defer tx.Rollback()

	n, err := e.Repo.CountStatussenTx(ctx, tx, zaak.ID)
	if err != nil {
		return domain.Status{}, err
	}
	if n > 0 && !opts.Elevated {
		return domain.Status{}, auth.ForbiddenError{Scope: auth.ScopeStatussenToevoegen}
	}
	if err := e.Repo.InsertStatusTx(ctx, tx, status); err != nil {
		if repo.IsDuplicateStatus(err) {
			return domain.Status{}, invalid(CodeStatusNietUniek,
				"zaak heeft al een status op %s", opts.DatumStatusGezet)
		}
		return domain.Status{}, err
	}
	updated.UpdatedAt = ts
	if err := e.Repo.UpdateZaakTx(ctx, tx, updated); err != nil {
		return domain.Status{}, err
	}
	err = e.Events.Append(ctx, tx, "status.toegevoegd", zaak.ID, "status", status.ID, opts.ActorID,
		events.EventPayload{"statustype": status.Statustype, "datum_status_gezet": status.DatumStatusGezet})
	if err != nil {
		return domain.Status{}, err
	}
	if sluiten {
		err = e.Events.Append(ctx, tx, "zaak.gesloten", zaak.ID, "zaak", zaak.ID, opts.ActorID,
			events.EventPayload{"einddatum": datum})
	} else if heropenen {
		err = e.Events.Append(ctx, tx, "zaak.heropend", zaak.ID, "zaak", zaak.ID, opts.ActorID, nil)
	}
	if err != nil {
		return domain.Status{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Status{}, err
	}
	return status, nil
}

type ResultaatSetOptions struct {
	ZaakID        string
	Resultaattype string
	Toelichting   string
	ActorID       string
}

// SetResultaat records the resultaat for a zaak, replacing any earlier one.
// When the zaak is already closed and still misses an archiefactiedatum, the
// new resultaattype is used to derive it after the fact.
func (e Engine) SetResultaat(ctx context.Context, opts ResultaatSetOptions) (domain.Resultaat, error) {
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.Resultaat{}, err
	}
	rt, err := e.Registry.ResultaatType(ctx, opts.Resultaattype)
	if err != nil {
		return domain.Resultaat{}, err
	}
	if rt.Zaaktype != "" && rt.Zaaktype != zaak.Zaaktype {
		return domain.Resultaat{}, invalid(CodeZaaktypeMismatch,
			"resultaattype %s hoort niet bij zaaktype %s", opts.Resultaattype, zaak.Zaaktype)
	}

	updated := zaak
	herleid := false
	if zaak.Gesloten() {
		if updated.Archiefnominatie == nil || *updated.Archiefnominatie == "" {
			updated.Archiefnominatie = optional(e.calculator().Archiefnominatie(rt))
			herleid = herleid || updated.Archiefnominatie != nil
		}
		if updated.Archiefactiedatum == nil || *updated.Archiefactiedatum == "" {
			actiedatum, err := e.calculator().Archiefactiedatum(ctx, updated, *zaak.Einddatum, rt)
			if err != nil {
				return domain.Resultaat{}, err
			}
			updated.Archiefactiedatum = actiedatum
			herleid = herleid || actiedatum != nil
		}
	}

	ts := e.ts()
	res := domain.Resultaat{
		ID:            uuid.NewString(),
		ZaakID:        zaak.ID,
		Resultaattype: opts.Resultaattype,
		Toelichting:   opts.Toelichting,
		CreatedAt:     ts,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Resultaat{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpsertResultaatTx(ctx, tx, res); err != nil {
		return domain.Resultaat{}, err
	}
	if herleid {
		updated.UpdatedAt = ts
		if err := e.Repo.UpdateZaakTx(ctx, tx, updated); err != nil {
			return domain.Resultaat{}, err
		}
	}
	err = e.Events.Append(ctx, tx, "resultaat.gezet", zaak.ID, "resultaat", res.ID, opts.ActorID,
		events.EventPayload{"resultaattype": res.Resultaattype})
	if err != nil {
		return domain.Resultaat{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Resultaat{}, err
	}
	return res, nil
}

// ZaakUpdateOptions carries partial updates: nil leaves a field untouched, an
// empty string clears a nullable field.
type ZaakUpdateOptions struct {
	ID                  string
	Omschrijving        *string
	Startdatum          *string
	EinddatumGepland    *string
	UiterlijkeEinddatum *string
	Hoofdzaak           *string
	Betalingsindicatie  *string
	LaatsteBetaaldatum  *string
	Archiefnominatie    *string
	Archiefstatus       *string
	Archiefactiedatum   *string
	ActorID             string
	// Force callers hold zaken.geforceerd-bijwerken and may update a closed
	// zaak.
	Force bool
}

func (e Engine) UpdateZaak(ctx context.Context, opts ZaakUpdateOptions) (domain.Zaak, error) {
	zaak, err := e.Repo.GetZaak(ctx, opts.ID)
	if err != nil {
		return domain.Zaak{}, err
	}
	if zaak.Gesloten() && !opts.Force {
		return domain.Zaak{}, auth.ForbiddenError{Scope: auth.ScopeZakenGeforceerd}
	}

	merged := zaak
	if opts.Omschrijving != nil {
		merged.Omschrijving = *opts.Omschrijving
	}
	if opts.Startdatum != nil && *opts.Startdatum != "" {
		if _, err := parseDag(*opts.Startdatum); err != nil {
			return domain.Zaak{}, invalid("invalid-date", "startdatum: %v", err)
		}
		merged.Startdatum = *opts.Startdatum
	}
	if opts.EinddatumGepland != nil {
		merged.EinddatumGepland = optional(*opts.EinddatumGepland)
	}
	if opts.UiterlijkeEinddatum != nil {
		merged.UiterlijkeEinddatum = optional(*opts.UiterlijkeEinddatum)
	}
	if opts.Hoofdzaak != nil {
		if *opts.Hoofdzaak == "" {
			merged.Hoofdzaak = nil
		} else {
			if err := e.validateHoofdzaak(ctx, zaak.ID, *opts.Hoofdzaak); err != nil {
				return domain.Zaak{}, err
			}
			merged.Hoofdzaak = opts.Hoofdzaak
		}
	}
	if opts.Betalingsindicatie != nil {
		merged.Betalingsindicatie = *opts.Betalingsindicatie
	}
	if opts.LaatsteBetaaldatum != nil {
		merged.LaatsteBetaaldatum = optional(*opts.LaatsteBetaaldatum)
	}
	if opts.Archiefnominatie != nil {
		merged.Archiefnominatie = optional(*opts.Archiefnominatie)
	}
	if opts.Archiefactiedatum != nil {
		merged.Archiefactiedatum = optional(*opts.Archiefactiedatum)
	}
	if opts.Archiefstatus != nil && *opts.Archiefstatus != "" {
		merged.Archiefstatus = *opts.Archiefstatus
	}

	if err := validateBetaling(merged); err != nil {
		return domain.Zaak{}, err
	}
	if merged.Archiefstatus != zaak.Archiefstatus ||
		opts.Archiefnominatie != nil || opts.Archiefactiedatum != nil {
		if err := e.validateArchivering(ctx, merged); err != nil {
			return domain.Zaak{}, err
		}
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Zaak{}, err
	}
	defer tx.Rollback()
	merged.UpdatedAt = e.ts()
	if err := e.Repo.UpdateZaakTx(ctx, tx, merged); err != nil {
		return domain.Zaak{}, err
	}
	err = e.Events.Append(ctx, tx, "zaak.bijgewerkt", merged.ID, "zaak", merged.ID, opts.ActorID,
		events.EventPayload{"archiefstatus": merged.Archiefstatus})
	if err != nil {
		return domain.Zaak{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Zaak{}, err
	}
	return merged, nil
}

// DeleteZaak removes the zaak with all dependent rows. Besluit links block
// deletion: those are owned by the besluiten registration and have to be
// detached there first.
func (e Engine) DeleteZaak(ctx context.Context, id, actorID string) error {
	zaak, err := e.Repo.GetZaak(ctx, id)
	if err != nil {
		return err
	}
	n, err := e.Repo.CountZaakBesluiten(ctx, zaak.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return invalid(CodePendingRelations, "zaak heeft nog %d gekoppelde besluiten", n)
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteZaakTx(ctx, tx, zaak.ID); err != nil {
		return err
	}
	err = e.Events.Append(ctx, tx, "zaak.verwijderd", zaak.ID, "zaak", zaak.ID, actorID,
		events.EventPayload{"identificatie": zaak.Identificatie})
	if err != nil {
		return err
	}
	return tx.Commit()
}

type ZaakEigenschapAddOptions struct {
	ZaakID     string
	Eigenschap string
	Naam       string
	Waarde     string
	ActorID    string
}

func (e Engine) AddZaakEigenschap(ctx context.Context, opts ZaakEigenschapAddOptions) (domain.ZaakEigenschap, error) {
	if opts.Naam == "" {
		return domain.ZaakEigenschap{}, invalid("required", "naam is verplicht")
	}
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.ZaakEigenschap{}, err
	}
	eig := domain.ZaakEigenschap{
		ID:         uuid.NewString(),
		ZaakID:     zaak.ID,
		Eigenschap: opts.Eigenschap,
		Naam:       opts.Naam,
		Waarde:     opts.Waarde,
		CreatedAt:  e.ts(),
	}
	return eig, e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.InsertZaakEigenschapTx(ctx, tx, eig); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakeigenschap.toegevoegd", zaak.ID, "zaakeigenschap", eig.ID, opts.ActorID,
			events.EventPayload{"naam": eig.Naam})
	})
}

type ZaakObjectAddOptions struct {
	ZaakID              string
	Object              string
	ObjectType          string
	RelatieOmschrijving string
	ActorID             string
}

func (e Engine) AddZaakObject(ctx context.Context, opts ZaakObjectAddOptions) (domain.ZaakObject, error) {
	if opts.Object == "" || opts.ObjectType == "" {
		return domain.ZaakObject{}, invalid("required", "object en object_type zijn verplicht")
	}
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.ZaakObject{}, err
	}
	zo := domain.ZaakObject{
		ID:                  uuid.NewString(),
		ZaakID:              zaak.ID,
		Object:              opts.Object,
		ObjectType:          opts.ObjectType,
		RelatieOmschrijving: opts.RelatieOmschrijving,
		CreatedAt:           e.ts(),
	}
	return zo, e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.InsertZaakObjectTx(ctx, tx, zo); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakobject.toegevoegd", zaak.ID, "zaakobject", zo.ID, opts.ActorID,
			events.EventPayload{"object": zo.Object, "object_type": zo.ObjectType})
	})
}

type ZaakInformatieObjectAddOptions struct {
	ZaakID           string
	InformatieObject string
	Titel            string
	Beschrijving     string
	ActorID          string
}

// AddZaakInformatieObject links a document; the reference is resolved against
// the documents registration so dangling links never enter the archive checks.
func (e Engine) AddZaakInformatieObject(ctx context.Context, opts ZaakInformatieObjectAddOptions) (domain.ZaakInformatieObject, error) {
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.ZaakInformatieObject{}, err
	}
	if _, err := e.Registry.Document(ctx, opts.InformatieObject); err != nil {
		return domain.ZaakInformatieObject{}, err
	}
	zio := domain.ZaakInformatieObject{
		ID:               uuid.NewString(),
		ZaakID:           zaak.ID,
		InformatieObject: opts.InformatieObject,
		Titel:            opts.Titel,
		Beschrijving:     opts.Beschrijving,
		CreatedAt:        e.ts(),
	}
	return zio, e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.InsertZaakInformatieObjectTx(ctx, tx, zio); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakinformatieobject.toegevoegd", zaak.ID, "zaakinformatieobject", zio.ID, opts.ActorID,
			events.EventPayload{"informatieobject": zio.InformatieObject})
	})
}

// AddZaakBesluit mirrors a besluit-zaak koppeling from the besluiten
// registration.
func (e Engine) AddZaakBesluit(ctx context.Context, zaakID, besluitURL, actorID string) (domain.ZaakBesluit, error) {
	zaak, err := e.Repo.GetZaak(ctx, zaakID)
	if err != nil {
		return domain.ZaakBesluit{}, err
	}
	besluit, err := e.Registry.Besluit(ctx, besluitURL)
	if err != nil {
		return domain.ZaakBesluit{}, err
	}
	if besluit.Zaak != "" && besluit.Zaak != zaak.ID {
		return domain.ZaakBesluit{}, invalid("besluit-zaak-mismatch",
			"besluit %s verwijst naar een andere zaak", besluitURL)
	}
	zb := domain.ZaakBesluit{
		ID:        uuid.NewString(),
		ZaakID:    zaak.ID,
		Besluit:   besluitURL,
		CreatedAt: e.ts(),
	}
	return zb, e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.InsertZaakBesluitTx(ctx, tx, zb); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakbesluit.toegevoegd", zaak.ID, "zaakbesluit", zb.ID, actorID,
			events.EventPayload{"besluit": zb.Besluit})
	})
}

func (e Engine) RemoveZaakBesluit(ctx context.Context, id, actorID string) error {
	zb, err := e.Repo.GetZaakBesluit(ctx, id)
	if err != nil {
		return err
	}
	return e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.DeleteZaakBesluitTx(ctx, tx, zb.ID); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakbesluit.verwijderd", zb.ZaakID, "zaakbesluit", zb.ID, actorID,
			events.EventPayload{"besluit": zb.Besluit})
	})
}

var aardRelaties = map[string]bool{"vervolg": true, "onderwerp": true, "bijdrage": true}

func (e Engine) RelateZaken(ctx context.Context, zaakID, relevanteZaakID, aard, actorID string) (domain.RelevanteZaak, error) {
	if !aardRelaties[aard] {
		return domain.RelevanteZaak{}, invalid("invalid-aard", "onbekende aard_relatie %q", aard)
	}
	if zaakID == relevanteZaakID {
		return domain.RelevanteZaak{}, invalid(CodeSelfForbidden, "zaak kan niet aan zichzelf gerelateerd worden")
	}
	zaak, err := e.Repo.GetZaak(ctx, zaakID)
	if err != nil {
		return domain.RelevanteZaak{}, err
	}
	andere, err := e.Repo.GetZaak(ctx, relevanteZaakID)
	if err != nil {
		return domain.RelevanteZaak{}, err
	}
	rel := domain.RelevanteZaak{
		ZaakID:        zaak.ID,
		RelevanteZaak: andere.ID,
		AardRelatie:   aard,
		CreatedAt:     e.ts(),
	}
	return rel, e.inTx(ctx, func(tx *sql.Tx) error {
		if err := e.Repo.InsertRelevanteZaakTx(ctx, tx, rel); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "zaakrelatie.toegevoegd", zaak.ID, "relevante_zaak", andere.ID, actorID,
			events.EventPayload{"aard_relatie": aard})
	})
}

type KlantContactAddOptions struct {
	ZaakID      string
	Datumtijd   string
	Kanaal      string
	Onderwerp   string
	Toelichting string
	ActorID     string
}

func (e Engine) AddKlantContact(ctx context.Context, opts KlantContactAddOptions) (domain.KlantContact, error) {
	zaak, err := e.Repo.GetZaak(ctx, opts.ZaakID)
	if err != nil {
		return domain.KlantContact{}, err
	}
	if opts.Datumtijd == "" {
		opts.Datumtijd = e.ts()
	}
	kc := domain.KlantContact{
		ID:          uuid.NewString(),
		ZaakID:      zaak.ID,
		Datumtijd:   opts.Datumtijd,
		Kanaal:      opts.Kanaal,
		Onderwerp:   opts.Onderwerp,
		Toelichting: opts.Toelichting,
		CreatedAt:   e.ts(),
	}
	err = e.inTx(ctx, func(tx *sql.Tx) error {
		year := e.now().UTC().Format("2006")
		n, err := e.Repo.NextKlantContactIdentificatie(ctx, tx, year)
		if err != nil {
			return err
		}
		kc.Identificatie = fmt.Sprintf("%s-%07d", year, n)
		if err := e.Repo.InsertKlantContactTx(ctx, tx, kc); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "klantcontact.toegevoegd", zaak.ID, "klantcontact", kc.ID, opts.ActorID,
			events.EventPayload{"identificatie": kc.Identificatie})
	})
	return kc, err
}

func (e Engine) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
