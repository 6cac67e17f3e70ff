package domain

// Archiefnominatie values.
const (
	ArchiefnominatieBlijvendBewaren = "blijvend_bewaren"
	ArchiefnominatieVernietigen     = "vernietigen"
)

// Archiefstatus values.
const (
	ArchiefstatusNogTeArchiveren      = "nog_te_archiveren"
	ArchiefstatusGearchiveerd         = "gearchiveerd"
	ArchiefstatusGearchiveerdOnbekend = "gearchiveerd_procestermijn_onbekend"
	ArchiefstatusOvergedragen         = "overgedragen"
)

// Betalingsindicatie values.
const (
	BetalingNvt          = "nvt"
	BetalingNogNiet      = "nog_niet"
	BetalingGedeeltelijk = "gedeeltelijk"
	BetalingGeheel       = "geheel"
)

// Afleidingswijze values for the brondatum archiefprocedure.
const (
	AfleidingAfgehandeld         = "afgehandeld"
	AfleidingAnderDatumkenmerk   = "ander_datumkenmerk"
	AfleidingEigenschap          = "eigenschap"
	AfleidingGerelateerdeZaak    = "gerelateerde_zaak"
	AfleidingHoofdzaak           = "hoofdzaak"
	AfleidingIngangsdatumBesluit = "ingangsdatum_besluit"
	AfleidingTermijn             = "termijn"
	AfleidingVervaldatumBesluit  = "vervaldatum_besluit"
	AfleidingZaakobject          = "zaakobject"
)

type Zaak struct {
	ID                  string  `json:"id"`
	Identificatie       string  `json:"identificatie"`
	Bronorganisatie     string  `json:"bronorganisatie"`
	Zaaktype            string  `json:"zaaktype" format:"uri"`
	Omschrijving        string  `json:"omschrijving,omitempty"`
	Registratiedatum    string  `json:"registratiedatum" format:"date"`
	Startdatum          string  `json:"startdatum" format:"date"`
	EinddatumGepland    *string `json:"einddatum_gepland,omitempty" format:"date"`
	UiterlijkeEinddatum *string `json:"uiterlijke_einddatum_afdoening,omitempty" format:"date"`
	Einddatum           *string `json:"einddatum,omitempty" format:"date"`
	Hoofdzaak           *string `json:"hoofdzaak,omitempty"`
	Betalingsindicatie  string  `json:"betalingsindicatie,omitempty" enum:"nvt,nog_niet,gedeeltelijk,geheel"`
	LaatsteBetaaldatum  *string `json:"laatste_betaaldatum,omitempty" format:"date-time"`
	Archiefnominatie    *string `json:"archiefnominatie,omitempty" enum:"blijvend_bewaren,vernietigen"`
	Archiefstatus       string  `json:"archiefstatus" enum:"nog_te_archiveren,gearchiveerd,gearchiveerd_procestermijn_onbekend,overgedragen"`
	Archiefactiedatum   *string `json:"archiefactiedatum,omitempty" format:"date"`
	CreatedAt           string  `json:"created_at" format:"date-time"`
	UpdatedAt           string  `json:"updated_at" format:"date-time"`
}

// Gesloten reports whether the zaak has been closed by an eindstatus.
func (z Zaak) Gesloten() bool {
	return z.Einddatum != nil && *z.Einddatum != ""
}

type Status struct {
	ID               string `json:"id"`
	ZaakID           string `json:"zaak"`
	Statustype       string `json:"statustype" format:"uri"`
	DatumStatusGezet string `json:"datum_status_gezet" format:"date-time"`
	Toelichting      string `json:"statustoelichting,omitempty"`
	CreatedAt        string `json:"created_at" format:"date-time"`
}

type Resultaat struct {
	ID            string `json:"id"`
	ZaakID        string `json:"zaak"`
	Resultaattype string `json:"resultaattype" format:"uri"`
	Toelichting   string `json:"toelichting,omitempty"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

type ZaakEigenschap struct {
	ID         string `json:"id"`
	ZaakID     string `json:"zaak"`
	Eigenschap string `json:"eigenschap" format:"uri"`
	Naam       string `json:"naam"`
	Waarde     string `json:"waarde"`
	CreatedAt  string `json:"created_at" format:"date-time"`
}

type ZaakObject struct {
	ID                  string `json:"id"`
	ZaakID              string `json:"zaak"`
	Object              string `json:"object" format:"uri"`
	ObjectType          string `json:"object_type"`
	RelatieOmschrijving string `json:"relatieomschrijving,omitempty"`
	CreatedAt           string `json:"created_at" format:"date-time"`
}

type ZaakInformatieObject struct {
	ID               string `json:"id"`
	ZaakID           string `json:"zaak"`
	InformatieObject string `json:"informatieobject" format:"uri"`
	Titel            string `json:"titel,omitempty"`
	Beschrijving     string `json:"beschrijving,omitempty"`
	CreatedAt        string `json:"created_at" format:"date-time"`
}

type ZaakBesluit struct {
	ID        string `json:"id"`
	ZaakID    string `json:"zaak"`
	Besluit   string `json:"besluit" format:"uri"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// RelevanteZaak links two zaken with an aard (relation kind).
type RelevanteZaak struct {
	ZaakID        string `json:"zaak"`
	RelevanteZaak string `json:"relevante_zaak"`
	AardRelatie   string `json:"aard_relatie" enum:"vervolg,onderwerp,bijdrage"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

// KlantContact is a timestamped contact note on a zaak.
type KlantContact struct {
	ID            string `json:"id"`
	ZaakID        string `json:"zaak"`
	Identificatie string `json:"identificatie"`
	Datumtijd     string `json:"datumtijd" format:"date-time"`
	Kanaal        string `json:"kanaal,omitempty"`
	Onderwerp     string `json:"onderwerp,omitempty"`
	Toelichting   string `json:"toelichting,omitempty"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	ZaakID     string `json:"zaak,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

// Applicatie is a registered API consumer with scoped access.
type Applicatie struct {
	ClientID   string   `json:"client_id"`
	Label      string   `json:"label,omitempty"`
	SecretHash string   `json:"-"`
	Scopes     []string `json:"scopes"`
	CreatedAt  string   `json:"created_at" format:"date-time"`
}
