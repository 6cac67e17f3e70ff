package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/config"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/db"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine/auth"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/migrate"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/registry"
)

const (
	zaaktypeURL     = "https://catalogi.example/zaaktypen/1"
	statustypeBegin = "https://catalogi.example/statustypen/begin"
	statustypeEind  = "https://catalogi.example/statustypen/eind"
	resultaattype1  = "https://catalogi.example/resultaattypen/1"
)

// fakeRegistry is an in-memory registry.Client.
type fakeRegistry struct {
	statustypes    map[string]registry.StatusType
	resultaattypes map[string]registry.ResultaatType
	besluiten      map[string]registry.Besluit
	documenten     map[string]registry.Document
	objecten       map[string]map[string]any
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		statustypes: map[string]registry.StatusType{
			statustypeBegin: {URL: statustypeBegin, Zaaktype: zaaktypeURL, Volgnummer: 1},
			statustypeEind:  {URL: statustypeEind, Zaaktype: zaaktypeURL, Volgnummer: 2, IsEindstatus: true},
		},
		resultaattypes: map[string]registry.ResultaatType{},
		besluiten:      map[string]registry.Besluit{},
		documenten:     map[string]registry.Document{},
		objecten:       map[string]map[string]any{},
	}
}

func (f *fakeRegistry) StatusType(ctx context.Context, url string) (registry.StatusType, error) {
	st, ok := f.statustypes[url]
	if !ok {
		return registry.StatusType{}, &registry.LookupError{URL: url, Err: errors.New("not found")}
	}
	return st, nil
}

func (f *fakeRegistry) ResultaatType(ctx context.Context, url string) (registry.ResultaatType, error) {
	rt, ok := f.resultaattypes[url]
	if !ok {
		return registry.ResultaatType{}, &registry.LookupError{URL: url, Err: errors.New("not found")}
	}
	return rt, nil
}

func (f *fakeRegistry) Besluit(ctx context.Context, url string) (registry.Besluit, error) {
	b, ok := f.besluiten[url]
	if !ok {
		return registry.Besluit{}, &registry.LookupError{URL: url, Err: errors.New("not found")}
	}
	return b, nil
}

func (f *fakeRegistry) Document(ctx context.Context, url string) (registry.Document, error) {
	d, ok := f.documenten[url]
	if !ok {
		return registry.Document{}, &registry.LookupError{URL: url, Err: errors.New("not found")}
	}
	return d, nil
}

func (f *fakeRegistry) Object(ctx context.Context, url string) (map[string]any, error) {
	o, ok := f.objecten[url]
	if !ok {
		return nil, &registry.LookupError{URL: url, Err: errors.New("not found")}
	}
	return o, nil
}

type testEnv struct {
	Engine   engine.Engine
	Registry *fakeRegistry
	Ctx      context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	reg := newFakeRegistry()
	eng := engine.New(conn, config.Default(), reg)
	eng.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Registry: reg, Ctx: context.Background()}
}

func (env testEnv) newZaak(t *testing.T) domain.Zaak {
	t.Helper()
	zaak, err := env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "123456782",
		Zaaktype:        zaaktypeURL,
		Startdatum:      "2018-06-01",
		ActorID:         "tester",
	})
	if err != nil {
		t.Fatalf("create zaak: %v", err)
	}
	return zaak
}

func (env testEnv) setResultaat(t *testing.T, zaakID string, rt registry.ResultaatType) {
	t.Helper()
	env.Registry.resultaattypes[resultaattype1] = rt
	if _, err := env.Engine.SetResultaat(env.Ctx, engine.ResultaatSetOptions{
		ZaakID: zaakID, Resultaattype: resultaattype1, ActorID: "tester",
	}); err != nil {
		t.Fatalf("set resultaat: %v", err)
	}
}

func (env testEnv) closeZaak(t *testing.T, zaakID, datum string) domain.Zaak {
	t.Helper()
	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaakID, Statustype: statustypeEind, DatumStatusGezet: datum,
		ActorID: "tester", Elevated: true, Reopen: true,
	}); err != nil {
		t.Fatalf("close zaak: %v", err)
	}
	zaak, err := env.Engine.Repo.GetZaak(env.Ctx, zaakID)
	if err != nil {
		t.Fatalf("get zaak: %v", err)
	}
	return zaak
}

func wantValidationCode(t *testing.T, err error, code string) {
	t.Helper()
	var ve engine.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error %s, got %v", code, err)
	}
	if ve.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, ve.Code, ve.Message)
	}
}

func TestCreateZaakGeneratesIdentificatie(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if zaak.Identificatie == "" {
		t.Fatal("expected generated identificatie")
	}
	if zaak.Archiefstatus != domain.ArchiefstatusNogTeArchiveren {
		t.Fatalf("expected nog_te_archiveren, got %s", zaak.Archiefstatus)
	}
	// same identificatie within the same bronorganisatie conflicts
	_, err := env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "123456782",
		Identificatie:   zaak.Identificatie,
		Zaaktype:        zaaktypeURL,
		Startdatum:      "2018-06-01",
		ActorID:         "tester",
	})
	wantValidationCode(t, err, "identificatie-niet-uniek")
	// but is fine under another bronorganisatie
	if _, err := env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "999999999",
		Identificatie:   zaak.Identificatie,
		Zaaktype:        zaaktypeURL,
		Startdatum:      "2018-06-01",
		ActorID:         "tester",
	}); err != nil {
		t.Fatalf("expected create under other bronorganisatie: %v", err)
	}
}

func TestCloseDerivesFromEinddatum(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	closed := env.closeZaak(t, zaak.ID, "2018-10-22T20:00:00Z")
	if closed.Einddatum == nil || *closed.Einddatum != "2018-10-22" {
		t.Fatalf("expected einddatum 2018-10-22, got %v", closed.Einddatum)
	}
	if closed.Archiefnominatie == nil || *closed.Archiefnominatie != domain.ArchiefnominatieVernietigen {
		t.Fatalf("expected archiefnominatie vernietigen, got %v", closed.Archiefnominatie)
	}
	if closed.Archiefactiedatum == nil || *closed.Archiefactiedatum != "2028-10-22" {
		t.Fatalf("expected archiefactiedatum 2028-10-22, got %v", closed.Archiefactiedatum)
	}
}

func TestCloseDerivesFromTermijn(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P0D",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingTermijn,
			Procestermijn:   "P5Y",
		},
	})
	closed := env.closeZaak(t, zaak.ID, "2018-10-18T12:00:00Z")
	if closed.Archiefactiedatum == nil || *closed.Archiefactiedatum != "2023-10-18" {
		t.Fatalf("expected archiefactiedatum 2023-10-18, got %v", closed.Archiefactiedatum)
	}
}

func TestCloseDerivesFromEigenschap(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if _, err := env.Engine.AddZaakEigenschap(env.Ctx, engine.ZaakEigenschapAddOptions{
		ZaakID: zaak.ID, Naam: "ontbindingsdatum", Waarde: "2019-01-01", ActorID: "tester",
	}); err != nil {
		t.Fatalf("add eigenschap: %v", err)
	}
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingEigenschap,
			Datumkenmerk:    "ontbindingsdatum",
		},
	})
	closed := env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")
	if closed.Archiefactiedatum == nil || *closed.Archiefactiedatum != "2029-01-01" {
		t.Fatalf("expected archiefactiedatum 2029-01-01, got %v", closed.Archiefactiedatum)
	}
}

func TestCloseWithEmptyEigenschapWaardeLeavesDatumOpen(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if _, err := env.Engine.AddZaakEigenschap(env.Ctx, engine.ZaakEigenschapAddOptions{
		ZaakID: zaak.ID, Naam: "ontbindingsdatum", Waarde: "", ActorID: "tester",
	}); err != nil {
		t.Fatalf("add eigenschap: %v", err)
	}
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingEigenschap,
			Datumkenmerk:    "ontbindingsdatum",
		},
	})
	// an empty waarde is not an error: the zaak closes, the datum stays open
	closed := env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")
	if closed.Archiefactiedatum != nil {
		t.Fatalf("expected open archiefactiedatum, got %v", *closed.Archiefactiedatum)
	}
	if !closed.Gesloten() {
		t.Fatal("expected zaak closed")
	}
}

func TestCloseFailsOnUnparsableEigenschapWaarde(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if _, err := env.Engine.AddZaakEigenschap(env.Ctx, engine.ZaakEigenschapAddOptions{
		ZaakID: zaak.ID, Naam: "ontbindingsdatum", Waarde: "geen-datum", ActorID: "tester",
	}); err != nil {
		t.Fatalf("add eigenschap: %v", err)
	}
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingEigenschap,
			Datumkenmerk:    "ontbindingsdatum",
		},
	})
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeEind, DatumStatusGezet: "2018-10-22T00:00:00Z",
		ActorID: "tester", Elevated: true,
	})
	var de engine.DerivationError
	if !errors.As(err, &de) {
		t.Fatalf("expected derivation error, got %v", err)
	}
	statussen, _ := env.Engine.Repo.ListStatussen(env.Ctx, zaak.ID)
	if len(statussen) != 0 {
		t.Fatalf("expected no statussen after failed close, got %d", len(statussen))
	}
}

func TestTermijnWithoutEinddatumFails(t *testing.T) {
	env := newTestEnv(t)
	calc := engine.Calculator{Repo: env.Engine.Repo, Registry: env.Registry}
	_, err := calc.Brondatum(env.Ctx, domain.Zaak{}, "", registry.BrondatumArchiefprocedure{
		Afleidingswijze: domain.AfleidingTermijn,
		Procestermijn:   "P5Y",
	})
	var de engine.DerivationError
	if !errors.As(err, &de) {
		t.Fatalf("expected derivation error, got %v", err)
	}
}

func TestCloseFailsOnMissingEigenschap(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingEigenschap,
			Datumkenmerk:    "ontbindingsdatum",
		},
	})
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeEind, DatumStatusGezet: "2018-10-22T00:00:00Z",
		ActorID: "tester", Elevated: true,
	})
	var de engine.DerivationError
	if !errors.As(err, &de) {
		t.Fatalf("expected derivation error, got %v", err)
	}
	// nothing persisted
	statussen, _ := env.Engine.Repo.ListStatussen(env.Ctx, zaak.ID)
	if len(statussen) != 0 {
		t.Fatalf("expected no statussen after failed close, got %d", len(statussen))
	}
}

func TestCloseDerivesFromHoofdzaak(t *testing.T) {
	env := newTestEnv(t)
	hoofd := env.newZaak(t)
	env.setResultaat(t, hoofd.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P1Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	env.closeZaak(t, hoofd.ID, "2020-03-01T00:00:00Z")

	deel, err := env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "123456782", Zaaktype: zaaktypeURL, Startdatum: "2020-01-01",
		Hoofdzaak: hoofd.ID, ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("create deelzaak: %v", err)
	}
	env.setResultaat(t, deel.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P2Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingHoofdzaak},
	})
	closed := env.closeZaak(t, deel.ID, "2020-06-01T00:00:00Z")
	// brondatum is the hoofdzaak einddatum, not the deelzaak's own
	if closed.Archiefactiedatum == nil || *closed.Archiefactiedatum != "2022-03-01" {
		t.Fatalf("expected archiefactiedatum 2022-03-01, got %v", closed.Archiefactiedatum)
	}
}

func TestCloseDerivesFromZaakobject(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	objURL := "https://objecten.example/pand/1"
	env.Registry.objecten[objURL] = map[string]any{"einddatumObject": "2021-05-05"}
	if _, err := env.Engine.AddZaakObject(env.Ctx, engine.ZaakObjectAddOptions{
		ZaakID: zaak.ID, Object: objURL, ObjectType: "pand", ActorID: "tester",
	}); err != nil {
		t.Fatalf("add zaakobject: %v", err)
	}
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P1Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingZaakobject,
			Datumkenmerk:    "einddatumObject",
			Objecttype:      "pand",
		},
	})
	closed := env.closeZaak(t, zaak.ID, "2020-06-01T00:00:00Z")
	if closed.Archiefactiedatum == nil || *closed.Archiefactiedatum != "2022-05-05" {
		t.Fatalf("expected archiefactiedatum 2022-05-05, got %v", closed.Archiefactiedatum)
	}
}

func TestAnderDatumkenmerkLeavesDatumOpen(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum: registry.BrondatumArchiefprocedure{
			Afleidingswijze: domain.AfleidingAnderDatumkenmerk,
			Datumkenmerk:    "extern",
		},
	})
	closed := env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")
	if closed.Archiefactiedatum != nil {
		t.Fatalf("expected open archiefactiedatum, got %v", *closed.Archiefactiedatum)
	}
	if !closed.Gesloten() {
		t.Fatal("expected zaak closed")
	}
}

func TestNotImplementedAfleidingswijzeFailsLoudly(t *testing.T) {
	env := newTestEnv(t)
	for _, wijze := range []string{
		domain.AfleidingGerelateerdeZaak,
		domain.AfleidingIngangsdatumBesluit,
		domain.AfleidingVervaldatumBesluit,
	} {
		zaak := env.newZaak(t)
		env.setResultaat(t, zaak.ID, registry.ResultaatType{
			URL: resultaattype1, Zaaktype: zaaktypeURL,
			Archiefactietermijn: "P1Y",
			Archiefnominatie:    domain.ArchiefnominatieVernietigen,
			Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: wijze},
		})
		_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
			ZaakID: zaak.ID, Statustype: statustypeEind, DatumStatusGezet: "2018-10-22T00:00:00Z",
			ActorID: "tester", Elevated: true,
		})
		var ne engine.NotImplementedError
		if !errors.As(err, &ne) {
			t.Fatalf("%s: expected not implemented error, got %v", wijze, err)
		}
	}
}

func TestReCloseKeepsArchiefactiedatum(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")
	// closing again with a later date keeps the already-derived fields
	reclosed := env.closeZaak(t, zaak.ID, "2019-01-01T00:00:00Z")
	if reclosed.Archiefactiedatum == nil || *reclosed.Archiefactiedatum != "2028-10-22" {
		t.Fatalf("expected archiefactiedatum unchanged at 2028-10-22, got %v", reclosed.Archiefactiedatum)
	}
}

func TestReopenClearsArchiveFields(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")

	// without the reopen scope this is forbidden
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2019-02-01T00:00:00Z",
		ActorID: "tester", Elevated: true,
	})
	var fe auth.ForbiddenError
	if !errors.As(err, &fe) || fe.Scope != auth.ScopeZakenHeropenen {
		t.Fatalf("expected forbidden %s, got %v", auth.ScopeZakenHeropenen, err)
	}

	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2019-02-01T00:00:00Z",
		ActorID: "tester", Elevated: true, Reopen: true,
	}); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened, _ := env.Engine.Repo.GetZaak(env.Ctx, zaak.ID)
	if reopened.Gesloten() {
		t.Fatal("expected zaak reopened")
	}
	if reopened.Archiefnominatie != nil || reopened.Archiefactiedatum != nil {
		t.Fatal("expected archive fields cleared on reopen")
	}
	if reopened.Archiefstatus != domain.ArchiefstatusNogTeArchiveren {
		t.Fatalf("expected nog_te_archiveren, got %s", reopened.Archiefstatus)
	}
}

func TestInitialStatusScope(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2018-06-01T00:00:00Z",
		ActorID: "tester",
	}); err != nil {
		t.Fatalf("initial status: %v", err)
	}
	// follow-up status needs the elevated scope
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2018-06-02T00:00:00Z",
		ActorID: "tester",
	})
	var fe auth.ForbiddenError
	if !errors.As(err, &fe) || fe.Scope != auth.ScopeStatussenToevoegen {
		t.Fatalf("expected forbidden %s, got %v", auth.ScopeStatussenToevoegen, err)
	}
	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2018-06-02T00:00:00Z",
		ActorID: "tester", Elevated: true,
	}); err != nil {
		t.Fatalf("elevated status: %v", err)
	}
}

func TestDuplicateStatusDatumConflicts(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	datum := "2018-06-01T00:00:00Z"
	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: datum,
		ActorID: "tester", Elevated: true,
	}); err != nil {
		t.Fatalf("first status: %v", err)
	}
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: datum,
		ActorID: "tester", Elevated: true,
	})
	wantValidationCode(t, err, "status-niet-uniek")
}

func TestCloseRequiresResultaat(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	_, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeEind, DatumStatusGezet: "2018-10-22T00:00:00Z",
		ActorID: "tester", Elevated: true,
	})
	wantValidationCode(t, err, "resultaat-ontbreekt")
}

func TestCloseBlockedByDocuments(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	docURL := "https://documenten.example/io/1"
	env.Registry.documenten[docURL] = registry.Document{URL: docURL, Status: "definitief"}
	if _, err := env.Engine.AddZaakInformatieObject(env.Ctx, engine.ZaakInformatieObjectAddOptions{
		ZaakID: zaak.ID, InformatieObject: docURL, ActorID: "tester",
	}); err != nil {
		t.Fatalf("link document: %v", err)
	}
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})

	closeOpts := engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeEind, DatumStatusGezet: "2018-10-22T00:00:00Z",
		ActorID: "tester", Elevated: true,
	}
	_, err := env.Engine.AddStatus(env.Ctx, closeOpts)
	wantValidationCode(t, err, "documents-not-archived")

	env.Registry.documenten[docURL] = registry.Document{URL: docURL, Status: "gearchiveerd", Locked: true}
	_, err = env.Engine.AddStatus(env.Ctx, closeOpts)
	wantValidationCode(t, err, "documents-locked")

	env.Registry.documenten[docURL] = registry.Document{URL: docURL, Status: "gearchiveerd"}
	if _, err := env.Engine.AddStatus(env.Ctx, closeOpts); err != nil {
		t.Fatalf("close with archived documents: %v", err)
	}
}

func TestArchiveringGuards(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	gearchiveerd := domain.ArchiefstatusGearchiveerd

	_, err := env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Archiefstatus: &gearchiveerd, ActorID: "tester",
	})
	wantValidationCode(t, err, "archiefnominatie-not-set")

	nominatie := domain.ArchiefnominatieVernietigen
	_, err = env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Archiefstatus: &gearchiveerd, Archiefnominatie: &nominatie, ActorID: "tester",
	})
	wantValidationCode(t, err, "archiefactiedatum-not-set")

	actiedatum := "2030-01-01"
	updated, err := env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Archiefstatus: &gearchiveerd, Archiefnominatie: &nominatie,
		Archiefactiedatum: &actiedatum, ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("archiveren: %v", err)
	}
	if updated.Archiefstatus != gearchiveerd {
		t.Fatalf("expected gearchiveerd, got %s", updated.Archiefstatus)
	}

	// clearing the archival fields while archived stays rejected
	leeg := ""
	_, err = env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Archiefnominatie: &leeg, Archiefactiedatum: &leeg, ActorID: "tester",
	})
	wantValidationCode(t, err, "archiefnominatie-not-set")
}

func TestBetalingNvtRejectsBetaaldatum(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	nvt := domain.BetalingNvt
	datum := "2024-01-01T00:00:00Z"
	_, err := env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Betalingsindicatie: &nvt, LaatsteBetaaldatum: &datum, ActorID: "tester",
	})
	wantValidationCode(t, err, "betaling-nvt")
}

func TestHoofdzaakRules(t *testing.T) {
	env := newTestEnv(t)
	hoofd := env.newZaak(t)
	deel, err := env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "123456782", Zaaktype: zaaktypeURL, Startdatum: "2020-01-01",
		Hoofdzaak: hoofd.ID, ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("create deelzaak: %v", err)
	}

	// a zaak cannot be its own hoofdzaak
	self := hoofd.ID
	_, err = env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: hoofd.ID, Hoofdzaak: &self, ActorID: "tester",
	})
	wantValidationCode(t, err, "self-forbidden")

	// a deelzaak cannot serve as hoofdzaak
	_, err = env.Engine.CreateZaak(env.Ctx, engine.ZaakCreateOptions{
		Bronorganisatie: "123456782", Zaaktype: zaaktypeURL, Startdatum: "2020-01-01",
		Hoofdzaak: deel.ID, ActorID: "tester",
	})
	wantValidationCode(t, err, "deelzaak-als-hoofdzaak")

	// a zaak with deelzaken cannot itself become a deelzaak
	ander := env.newZaak(t)
	anderID := ander.ID
	_, err = env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: hoofd.ID, Hoofdzaak: &anderID, ActorID: "tester",
	})
	wantValidationCode(t, err, "deelzaak-als-hoofdzaak")
}

func TestUpdateClosedZaakNeedsForce(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")

	omschrijving := "aangepast"
	_, err := env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Omschrijving: &omschrijving, ActorID: "tester",
	})
	var fe auth.ForbiddenError
	if !errors.As(err, &fe) || fe.Scope != auth.ScopeZakenGeforceerd {
		t.Fatalf("expected forbidden %s, got %v", auth.ScopeZakenGeforceerd, err)
	}
	if _, err := env.Engine.UpdateZaak(env.Ctx, engine.ZaakUpdateOptions{
		ID: zaak.ID, Omschrijving: &omschrijving, ActorID: "tester", Force: true,
	}); err != nil {
		t.Fatalf("forced update: %v", err)
	}
}

func TestDeleteZaakBlockedByBesluiten(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	besluitURL := "https://besluiten.example/besluit/1"
	env.Registry.besluiten[besluitURL] = registry.Besluit{URL: besluitURL, Zaak: zaak.ID}
	zb, err := env.Engine.AddZaakBesluit(env.Ctx, zaak.ID, besluitURL, "tester")
	if err != nil {
		t.Fatalf("add besluit: %v", err)
	}

	err = env.Engine.DeleteZaak(env.Ctx, zaak.ID, "tester")
	wantValidationCode(t, err, "pending-relations")

	if err := env.Engine.RemoveZaakBesluit(env.Ctx, zb.ID, "tester"); err != nil {
		t.Fatalf("remove besluit: %v", err)
	}
	if err := env.Engine.DeleteZaak(env.Ctx, zaak.ID, "tester"); err != nil {
		t.Fatalf("delete zaak: %v", err)
	}
	if _, err := env.Engine.Repo.GetZaak(env.Ctx, zaak.ID); err == nil {
		t.Fatal("expected zaak gone")
	}
}

func TestDeleteZaakCascades(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	if _, err := env.Engine.AddStatus(env.Ctx, engine.StatusAddOptions{
		ZaakID: zaak.ID, Statustype: statustypeBegin, DatumStatusGezet: "2018-06-01T00:00:00Z",
		ActorID: "tester", Elevated: true,
	}); err != nil {
		t.Fatalf("add status: %v", err)
	}
	if _, err := env.Engine.AddZaakEigenschap(env.Ctx, engine.ZaakEigenschapAddOptions{
		ZaakID: zaak.ID, Naam: "kenmerk", Waarde: "x", ActorID: "tester",
	}); err != nil {
		t.Fatalf("add eigenschap: %v", err)
	}
	if err := env.Engine.DeleteZaak(env.Ctx, zaak.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	statussen, _ := env.Engine.Repo.ListStatussen(env.Ctx, zaak.ID)
	eigs, _ := env.Engine.Repo.ListZaakEigenschappen(env.Ctx, zaak.ID)
	if len(statussen) != 0 || len(eigs) != 0 {
		t.Fatalf("expected dependents removed, got %d statussen %d eigenschappen", len(statussen), len(eigs))
	}
}

func TestResultaatAfterCloseDerivesDatum(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	// close with a resultaattype that yields no datum
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefnominatie: domain.ArchiefnominatieBlijvendBewaren,
		Brondatum:        registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	closed := env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")
	if closed.Archiefactiedatum != nil {
		t.Fatalf("expected no archiefactiedatum yet, got %v", *closed.Archiefactiedatum)
	}

	// replacing the resultaat derives the datum from the recorded einddatum
	rt2 := "https://catalogi.example/resultaattypen/2"
	env.Registry.resultaattypes[rt2] = registry.ResultaatType{
		URL: rt2, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	}
	if _, err := env.Engine.SetResultaat(env.Ctx, engine.ResultaatSetOptions{
		ZaakID: zaak.ID, Resultaattype: rt2, ActorID: "tester",
	}); err != nil {
		t.Fatalf("replace resultaat: %v", err)
	}
	after, _ := env.Engine.Repo.GetZaak(env.Ctx, zaak.ID)
	if after.Archiefactiedatum == nil || *after.Archiefactiedatum != "2028-10-22" {
		t.Fatalf("expected archiefactiedatum 2028-10-22, got %v", after.Archiefactiedatum)
	}
	// a zaak carries at most one resultaat
	res, err := env.Engine.Repo.GetResultaatByZaak(env.Ctx, zaak.ID)
	if err != nil {
		t.Fatalf("get resultaat: %v", err)
	}
	if res.Resultaattype != rt2 {
		t.Fatalf("expected replaced resultaattype, got %s", res.Resultaattype)
	}
}

func TestZaaktypeMismatchRejected(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.Registry.resultaattypes[resultaattype1] = registry.ResultaatType{
		URL: resultaattype1, Zaaktype: "https://catalogi.example/zaaktypen/ander",
		Archiefnominatie: domain.ArchiefnominatieVernietigen,
	}
	_, err := env.Engine.SetResultaat(env.Ctx, engine.ResultaatSetOptions{
		ZaakID: zaak.ID, Resultaattype: resultaattype1, ActorID: "tester",
	})
	wantValidationCode(t, err, "zaaktype-mismatch")
}

func TestKlantContactIdentificatie(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	for i := 1; i <= 2; i++ {
		kc, err := env.Engine.AddKlantContact(env.Ctx, engine.KlantContactAddOptions{
			ZaakID: zaak.ID, Onderwerp: "vraag", ActorID: "tester",
		})
		if err != nil {
			t.Fatalf("add klantcontact: %v", err)
		}
		want := fmt.Sprintf("2024-%07d", i)
		if kc.Identificatie != want {
			t.Fatalf("expected identificatie %s, got %s", want, kc.Identificatie)
		}
	}
}

func TestEventLogRecordsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	zaak := env.newZaak(t)
	env.setResultaat(t, zaak.ID, registry.ResultaatType{
		URL: resultaattype1, Zaaktype: zaaktypeURL,
		Archiefactietermijn: "P10Y",
		Archiefnominatie:    domain.ArchiefnominatieVernietigen,
		Brondatum:           registry.BrondatumArchiefprocedure{Afleidingswijze: domain.AfleidingAfgehandeld},
	})
	env.closeZaak(t, zaak.ID, "2018-10-22T00:00:00Z")

	evts, err := env.Engine.Repo.EventsAfter(env.Ctx, 100, 0, zaak.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	var types []string
	for _, evt := range evts {
		types = append(types, evt.Type)
	}
	want := []string{"zaak.aangemaakt", "resultaat.gezet", "status.toegevoegd", "zaak.gesloten"}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
}
