package server

// Request payloads

type CreateZaakRequest struct {
	Bronorganisatie     string  `json:"bronorganisatie" maxLength:"9"`
	Identificatie       *string `json:"identificatie,omitempty" maxLength:"40"`
	Zaaktype            string  `json:"zaaktype" format:"uri"`
	Omschrijving        *string `json:"omschrijving,omitempty" maxLength:"80"`
	Registratiedatum    *string `json:"registratiedatum,omitempty" format:"date"`
	Startdatum          string  `json:"startdatum" format:"date"`
	EinddatumGepland    *string `json:"einddatum_gepland,omitempty" format:"date"`
	UiterlijkeEinddatum *string `json:"uiterlijke_einddatum_afdoening,omitempty" format:"date"`
	Hoofdzaak           *string `json:"hoofdzaak,omitempty"`
	Betalingsindicatie  *string `json:"betalingsindicatie,omitempty" enum:"nvt,nog_niet,gedeeltelijk,geheel"`
}

type UpdateZaakRequest struct {
	Omschrijving        *string `json:"omschrijving,omitempty" maxLength:"80"`
	Startdatum          *string `json:"startdatum,omitempty" format:"date"`
	EinddatumGepland    *string `json:"einddatum_gepland,omitempty"`
	UiterlijkeEinddatum *string `json:"uiterlijke_einddatum_afdoening,omitempty"`
	Hoofdzaak           *string `json:"hoofdzaak,omitempty"`
	Betalingsindicatie  *string `json:"betalingsindicatie,omitempty" enum:"nvt,nog_niet,gedeeltelijk,geheel"`
	LaatsteBetaaldatum  *string `json:"laatste_betaaldatum,omitempty"`
	Archiefnominatie    *string `json:"archiefnominatie,omitempty"`
	Archiefstatus       *string `json:"archiefstatus,omitempty" enum:"nog_te_archiveren,gearchiveerd,gearchiveerd_procestermijn_onbekend,overgedragen"`
	Archiefactiedatum   *string `json:"archiefactiedatum,omitempty"`
}

type CreateStatusRequest struct {
	Zaak             string  `json:"zaak"`
	Statustype       string  `json:"statustype" format:"uri"`
	DatumStatusGezet string  `json:"datum_status_gezet" format:"date-time"`
	Toelichting      *string `json:"statustoelichting,omitempty" maxLength:"1000"`
}

type CreateResultaatRequest struct {
	Zaak          string  `json:"zaak"`
	Resultaattype string  `json:"resultaattype" format:"uri"`
	Toelichting   *string `json:"toelichting,omitempty" maxLength:"1000"`
}

type CreateZaakEigenschapRequest struct {
	Eigenschap string `json:"eigenschap" format:"uri"`
	Naam       string `json:"naam"`
	Waarde     string `json:"waarde"`
}

type CreateZaakObjectRequest struct {
	Zaak                string  `json:"zaak"`
	Object              string  `json:"object" format:"uri"`
	ObjectType          string  `json:"object_type"`
	RelatieOmschrijving *string `json:"relatieomschrijving,omitempty" maxLength:"80"`
}

type CreateZaakInformatieObjectRequest struct {
	Zaak             string  `json:"zaak"`
	InformatieObject string  `json:"informatieobject" format:"uri"`
	Titel            *string `json:"titel,omitempty" maxLength:"200"`
	Beschrijving     *string `json:"beschrijving,omitempty"`
}

type CreateZaakBesluitRequest struct {
	Besluit string `json:"besluit" format:"uri"`
}

type CreateRelevanteZaakRequest struct {
	RelevanteZaak string `json:"relevante_zaak"`
	AardRelatie   string `json:"aard_relatie" enum:"vervolg,onderwerp,bijdrage"`
}

type CreateKlantContactRequest struct {
	Zaak        string  `json:"zaak"`
	Datumtijd   *string `json:"datumtijd,omitempty" format:"date-time"`
	Kanaal      *string `json:"kanaal,omitempty" maxLength:"20"`
	Onderwerp   *string `json:"onderwerp,omitempty" maxLength:"200"`
	Toelichting *string `json:"toelichting,omitempty" maxLength:"1000"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
