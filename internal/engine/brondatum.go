package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rickb777/period"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/registry"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
)

const dagFormat = "2006-01-02"

// Calculator derives archiefactiedatum and archiefnominatie for a zaak that is
// being closed. It never mutates the zaak; callers apply the results.
type Calculator struct {
	Repo     repo.Repo
	Registry registry.Client
}

// Archiefnominatie returns the nomination the resultaattype prescribes.
func (c Calculator) Archiefnominatie(rt registry.ResultaatType) string {
	return rt.Archiefnominatie
}

// Archiefactiedatum computes brondatum + archiefactietermijn for the given
// zaak and closing date. It returns nil when either part is not determinable
// yet (no termijn configured, or the strategy yields no date); that is a
// legitimate outcome, not an error.
func (c Calculator) Archiefactiedatum(ctx context.Context, zaak domain.Zaak, einddatum string, rt registry.ResultaatType) (*string, error) {
	if rt.Archiefactietermijn == "" {
		return nil, nil
	}
	brondatum, err := c.Brondatum(ctx, zaak, einddatum, rt.Brondatum)
	if err != nil {
		return nil, err
	}
	if brondatum == nil {
		return nil, nil
	}
	termijn, err := period.Parse(rt.Archiefactietermijn)
	if err != nil {
		return nil, DerivationError{Afleidingswijze: rt.Brondatum.Afleidingswijze,
			Reason: fmt.Sprintf("ongeldige archiefactietermijn %q: %v", rt.Archiefactietermijn, err)}
	}
	actiedatum, err := addTermijn(*brondatum, termijn)
	if err != nil {
		return nil, DerivationError{Afleidingswijze: rt.Brondatum.Afleidingswijze, Reason: err.Error()}
	}
	return &actiedatum, nil
}

// Brondatum resolves the source date per the configured afleidingswijze.
// einddatum is the closing date of the zaak, passed explicitly so the
// calculator stays pure with respect to the zaak record.
func (c Calculator) Brondatum(ctx context.Context, zaak domain.Zaak, einddatum string, bp registry.BrondatumArchiefprocedure) (*string, error) {
	switch bp.Afleidingswijze {
	case domain.AfleidingAfgehandeld:
		if einddatum == "" {
			return nil, nil
		}
		return &einddatum, nil

	case domain.AfleidingHoofdzaak:
		if zaak.Hoofdzaak == nil || *zaak.Hoofdzaak == "" {
			return nil, nil
		}
		hoofdzaak, err := c.Repo.GetZaak(ctx, *zaak.Hoofdzaak)
		if err != nil {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
				Reason: fmt.Sprintf("hoofdzaak %s: %v", *zaak.Hoofdzaak, err)}
		}
		if hoofdzaak.Einddatum == nil || *hoofdzaak.Einddatum == "" {
			return nil, nil
		}
		return hoofdzaak.Einddatum, nil

	case domain.AfleidingEigenschap:
		return c.brondatumUitEigenschap(ctx, zaak, bp)

	case domain.AfleidingAnderDatumkenmerk:
		// The date lives on an external attribute this registration cannot
		// see; it has to be supplied manually later.
		return nil, nil

	case domain.AfleidingZaakobject:
		return c.brondatumUitZaakobject(ctx, zaak, bp)

	case domain.AfleidingTermijn:
		if einddatum == "" {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze, Reason: "einddatum ontbreekt"}
		}
		if bp.Procestermijn == "" {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze, Reason: "procestermijn ontbreekt"}
		}
		termijn, err := period.Parse(bp.Procestermijn)
		if err != nil {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
				Reason: fmt.Sprintf("ongeldige procestermijn %q: %v", bp.Procestermijn, err)}
		}
		brondatum, err := addTermijn(einddatum, termijn)
		if err != nil {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze, Reason: err.Error()}
		}
		return &brondatum, nil

	case domain.AfleidingGerelateerdeZaak, domain.AfleidingIngangsdatumBesluit, domain.AfleidingVervaldatumBesluit:
		return nil, NotImplementedError{Afleidingswijze: bp.Afleidingswijze}

	default:
		return nil, fmt.Errorf("onbekende afleidingswijze %q", bp.Afleidingswijze)
	}
}

func (c Calculator) brondatumUitEigenschap(ctx context.Context, zaak domain.Zaak, bp registry.BrondatumArchiefprocedure) (*string, error) {
	if bp.Datumkenmerk == "" {
		return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze, Reason: "datumkenmerk ontbreekt"}
	}
	eigenschappen, err := c.Repo.ListZaakEigenschappen(ctx, zaak.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range eigenschappen {
		if e.Naam != bp.Datumkenmerk {
			continue
		}
		if e.Waarde == "" {
			return nil, nil
		}
		datum, err := parseDag(e.Waarde)
		if err != nil {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
				Reason: fmt.Sprintf("eigenschap %s heeft geen geldige datum: %q", e.Naam, e.Waarde)}
		}
		return &datum, nil
	}
	return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
		Reason: fmt.Sprintf("zaak heeft geen eigenschap %q", bp.Datumkenmerk)}
}

func (c Calculator) brondatumUitZaakobject(ctx context.Context, zaak domain.Zaak, bp registry.BrondatumArchiefprocedure) (*string, error) {
	if bp.Datumkenmerk == "" {
		return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze, Reason: "datumkenmerk ontbreekt"}
	}
	objecten, err := c.Repo.ListZaakObjecten(ctx, zaak.ID)
	if err != nil {
		return nil, err
	}
	for _, zo := range objecten {
		if bp.Objecttype != "" && zo.ObjectType != bp.Objecttype {
			continue
		}
		raw, err := c.Registry.Object(ctx, zo.Object)
		if err != nil {
			return nil, err
		}
		val, ok := raw[bp.Datumkenmerk]
		if !ok {
			continue
		}
		s, _ := val.(string)
		datum, err := parseDag(s)
		if err != nil {
			return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
				Reason: fmt.Sprintf("object %s: kenmerk %s is geen geldige datum: %v", zo.Object, bp.Datumkenmerk, val)}
		}
		return &datum, nil
	}
	return nil, DerivationError{Afleidingswijze: bp.Afleidingswijze,
		Reason: fmt.Sprintf("geen zaakobject met kenmerk %q gevonden", bp.Datumkenmerk)}
}

// parseDag accepts a plain date or a full timestamp and returns the date part.
func parseDag(v string) (string, error) {
	if t, err := time.Parse(dagFormat, v); err == nil {
		return t.Format(dagFormat), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(dagFormat), nil
	}
	return "", fmt.Errorf("ongeldige datum %q", v)
}

// addTermijn applies an ISO 8601 period to a date using calendar arithmetic,
// so P1Y over a leap day lands on the right day.
func addTermijn(datum string, termijn period.Period) (string, error) {
	t, err := time.Parse(dagFormat, datum)
	if err != nil {
		return "", fmt.Errorf("ongeldige brondatum %q", datum)
	}
	res, _ := termijn.AddTo(t)
	return res.Format(dagFormat), nil
}
