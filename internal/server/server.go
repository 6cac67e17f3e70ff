package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine/auth"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/registry"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"archiefnominatie-not-set"`
	Message string         `json:"message" example:"archiefnominatie moet gezet zijn voordat archiefstatus kan wijzigen"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Zaken API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Engine.Repo))
	hcfg := huma.DefaultConfig("Zaken API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerZaken(group, cfg.Engine)
	registerStatussen(group, cfg.Engine)
	registerResultaten(group, cfg.Engine)
	registerZaakEigenschappen(group, cfg.Engine)
	registerZaakObjecten(group, cfg.Engine)
	registerZaakInformatieObjecten(group, cfg.Engine)
	registerZaakBesluiten(group, cfg.Engine)
	registerRelevanteZaken(group, cfg.Engine)
	registerKlantContacten(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	startNotificatieDispatcher(cfg.Engine)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if se, ok := err.(huma.StatusError); ok {
		return se
	}
	var fe auth.ForbiddenError
	if errors.As(err, &fe) {
		return newAPIError(http.StatusForbidden, "forbidden", err.Error(), map[string]any{"scope": fe.Scope})
	}
	var ve engine.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(statusForCode(ve.Code), ve.Code, ve.Message, nil)
	}
	var de engine.DerivationError
	if errors.As(err, &de) {
		return newAPIError(http.StatusUnprocessableEntity, engine.CodeArchiefactiedatum, err.Error(),
			map[string]any{"afleidingswijze": de.Afleidingswijze})
	}
	var ne engine.NotImplementedError
	if errors.As(err, &ne) {
		return newAPIError(http.StatusNotImplemented, "not_implemented", err.Error(),
			map[string]any{"afleidingswijze": ne.Afleidingswijze})
	}
	var le *registry.LookupError
	if errors.As(err, &le) {
		return newAPIError(http.StatusBadRequest, engine.CodeRegistry, err.Error(), map[string]any{"url": le.URL})
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error",
		map[string]any{"error": err.Error()})
}

func statusForCode(code string) int {
	switch code {
	case engine.CodeIdentificatieNietUniek, engine.CodeStatusNietUniek, engine.CodePendingRelations:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Zaken API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

var mutationErrors = []int{
	http.StatusBadRequest,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusUnprocessableEntity,
	http.StatusInternalServerError,
}

type zaakOutput struct {
	Body domain.Zaak
}

type zaakPath struct {
	ZaakID string `path:"zaak_id"`
}

func registerZaken(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaak",
		Method:        http.MethodPost,
		Path:          "/zaken",
		Summary:       "Create zaak",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateZaakRequest
	}) (*zaakOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenAanmaken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		zaak, err := e.CreateZaak(ctx, engine.ZaakCreateOptions{
			Bronorganisatie:     input.Body.Bronorganisatie,
			Identificatie:       deref(input.Body.Identificatie),
			Zaaktype:            input.Body.Zaaktype,
			Omschrijving:        deref(input.Body.Omschrijving),
			Registratiedatum:    deref(input.Body.Registratiedatum),
			Startdatum:          input.Body.Startdatum,
			EinddatumGepland:    deref(input.Body.EinddatumGepland),
			UiterlijkeEinddatum: deref(input.Body.UiterlijkeEinddatum),
			Hoofdzaak:           deref(input.Body.Hoofdzaak),
			Betalingsindicatie:  deref(input.Body.Betalingsindicatie),
			ActorID:             clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &zaakOutput{Body: zaak}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-zaak",
		Method:      http.MethodGet,
		Path:        "/zaken/{zaak_id}",
		Summary:     "Get zaak",
	}, func(ctx context.Context, input *zaakPath) (*zaakOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenLezen); err != nil {
			return nil, handleError(err)
		}
		zaak, err := e.Repo.GetZaak(ctx, input.ZaakID)
		if err != nil {
			return nil, handleError(err)
		}
		return &zaakOutput{Body: zaak}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-zaak",
		Method:      http.MethodPatch,
		Path:        "/zaken/{zaak_id}",
		Summary:     "Update zaak",
		Errors:      mutationErrors,
	}, func(ctx context.Context, input *struct {
		zaakPath
		Body UpdateZaakRequest
	}) (*zaakOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		zaak, err := e.UpdateZaak(ctx, engine.ZaakUpdateOptions{
			ID:                  input.ZaakID,
			Omschrijving:        input.Body.Omschrijving,
			Startdatum:          input.Body.Startdatum,
			EinddatumGepland:    input.Body.EinddatumGepland,
			UiterlijkeEinddatum: input.Body.UiterlijkeEinddatum,
			Hoofdzaak:           input.Body.Hoofdzaak,
			Betalingsindicatie:  input.Body.Betalingsindicatie,
			LaatsteBetaaldatum:  input.Body.LaatsteBetaaldatum,
			Archiefnominatie:    input.Body.Archiefnominatie,
			Archiefstatus:       input.Body.Archiefstatus,
			Archiefactiedatum:   input.Body.Archiefactiedatum,
			ActorID:             clientID,
			Force:               hasScope(ctx, e, auth.ScopeZakenGeforceerd),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &zaakOutput{Body: zaak}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-zaak",
		Method:        http.MethodDelete,
		Path:          "/zaken/{zaak_id}",
		Summary:       "Delete zaak with all dependent records",
		DefaultStatus: http.StatusNoContent,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *zaakPath) (*struct{}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenVerwijderen); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteZaak(ctx, input.ZaakID, clientID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerStatussen(api huma.API, e engine.Engine) {
	type statusOutput struct {
		Body domain.Status
	}
	huma.Register(api, huma.Operation{
		OperationID:   "create-status",
		Method:        http.MethodPost,
		Path:          "/statussen",
		Summary:       "Add status, closing or reopening the zaak when applicable",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateStatusRequest
	}) (*statusOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenAanmaken); err != nil {
			if !hasScope(ctx, e, auth.ScopeStatussenToevoegen) {
				return nil, handleError(err)
			}
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		status, err := e.AddStatus(ctx, engine.StatusAddOptions{
			ZaakID:           input.Body.Zaak,
			Statustype:       input.Body.Statustype,
			DatumStatusGezet: input.Body.DatumStatusGezet,
			Toelichting:      deref(input.Body.Toelichting),
			ActorID:          clientID,
			Elevated:         hasScope(ctx, e, auth.ScopeStatussenToevoegen),
			Reopen:           hasScope(ctx, e, auth.ScopeZakenHeropenen),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &statusOutput{Body: status}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/statussen/{status_id}",
		Summary:     "Get status",
	}, func(ctx context.Context, input *struct {
		StatusID string `path:"status_id"`
	}) (*statusOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenLezen); err != nil {
			return nil, handleError(err)
		}
		status, err := e.Repo.GetStatus(ctx, input.StatusID)
		if err != nil {
			return nil, handleError(err)
		}
		return &statusOutput{Body: status}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-zaak-statussen",
		Method:      http.MethodGet,
		Path:        "/zaken/{zaak_id}/statussen",
		Summary:     "List statussen of a zaak",
	}, func(ctx context.Context, input *zaakPath) (*struct {
		Body []domain.Status
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenLezen); err != nil {
			return nil, handleError(err)
		}
		if _, err := e.Repo.GetZaak(ctx, input.ZaakID); err != nil {
			return nil, handleError(err)
		}
		statussen, err := e.Repo.ListStatussen(ctx, input.ZaakID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Status
		}{Body: statussen}, nil
	})
}

func registerResultaten(api huma.API, e engine.Engine) {
	type resultaatOutput struct {
		Body domain.Resultaat
	}
	huma.Register(api, huma.Operation{
		OperationID:   "create-resultaat",
		Method:        http.MethodPost,
		Path:          "/resultaten",
		Summary:       "Set resultaat, replacing any earlier one",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateResultaatRequest
	}) (*resultaatOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		res, err := e.SetResultaat(ctx, engine.ResultaatSetOptions{
			ZaakID:        input.Body.Zaak,
			Resultaattype: input.Body.Resultaattype,
			Toelichting:   deref(input.Body.Toelichting),
			ActorID:       clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &resultaatOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-resultaat",
		Method:      http.MethodGet,
		Path:        "/resultaten/{resultaat_id}",
		Summary:     "Get resultaat",
	}, func(ctx context.Context, input *struct {
		ResultaatID string `path:"resultaat_id"`
	}) (*resultaatOutput, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenLezen); err != nil {
			return nil, handleError(err)
		}
		res, err := e.Repo.GetResultaat(ctx, input.ResultaatID)
		if err != nil {
			return nil, handleError(err)
		}
		return &resultaatOutput{Body: res}, nil
	})
}

func registerZaakEigenschappen(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaakeigenschap",
		Method:        http.MethodPost,
		Path:          "/zaken/{zaak_id}/zaakeigenschappen",
		Summary:       "Add zaakeigenschap",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		zaakPath
		Body CreateZaakEigenschapRequest
	}) (*struct {
		Body domain.ZaakEigenschap
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		eig, err := e.AddZaakEigenschap(ctx, engine.ZaakEigenschapAddOptions{
			ZaakID:     input.ZaakID,
			Eigenschap: input.Body.Eigenschap,
			Naam:       input.Body.Naam,
			Waarde:     input.Body.Waarde,
			ActorID:    clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ZaakEigenschap
		}{Body: eig}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-zaakeigenschappen",
		Method:      http.MethodGet,
		Path:        "/zaken/{zaak_id}/zaakeigenschappen",
		Summary:     "List zaakeigenschappen",
	}, func(ctx context.Context, input *zaakPath) (*struct {
		Body []domain.ZaakEigenschap
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenLezen); err != nil {
			return nil, handleError(err)
		}
		if _, err := e.Repo.GetZaak(ctx, input.ZaakID); err != nil {
			return nil, handleError(err)
		}
		eigs, err := e.Repo.ListZaakEigenschappen(ctx, input.ZaakID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.ZaakEigenschap
		}{Body: eigs}, nil
	})
}

func registerZaakObjecten(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaakobject",
		Method:        http.MethodPost,
		Path:          "/zaakobjecten",
		Summary:       "Link object to zaak",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateZaakObjectRequest
	}) (*struct {
		Body domain.ZaakObject
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		zo, err := e.AddZaakObject(ctx, engine.ZaakObjectAddOptions{
			ZaakID:              input.Body.Zaak,
			Object:              input.Body.Object,
			ObjectType:          input.Body.ObjectType,
			RelatieOmschrijving: deref(input.Body.RelatieOmschrijving),
			ActorID:             clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ZaakObject
		}{Body: zo}, nil
	})
}

func registerZaakInformatieObjecten(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaakinformatieobject",
		Method:        http.MethodPost,
		Path:          "/zaakinformatieobjecten",
		Summary:       "Link informatieobject to zaak",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateZaakInformatieObjectRequest
	}) (*struct {
		Body domain.ZaakInformatieObject
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		zio, err := e.AddZaakInformatieObject(ctx, engine.ZaakInformatieObjectAddOptions{
			ZaakID:           input.Body.Zaak,
			InformatieObject: input.Body.InformatieObject,
			Titel:            deref(input.Body.Titel),
			Beschrijving:     deref(input.Body.Beschrijving),
			ActorID:          clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ZaakInformatieObject
		}{Body: zio}, nil
	})
}

func registerZaakBesluiten(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaakbesluit",
		Method:        http.MethodPost,
		Path:          "/zaken/{zaak_id}/besluiten",
		Summary:       "Mirror besluit link from the besluiten registration",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		zaakPath
		Body CreateZaakBesluitRequest
	}) (*struct {
		Body domain.ZaakBesluit
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		zb, err := e.AddZaakBesluit(ctx, input.ZaakID, input.Body.Besluit, clientID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ZaakBesluit
		}{Body: zb}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-zaakbesluit",
		Method:        http.MethodDelete,
		Path:          "/zaken/{zaak_id}/besluiten/{besluit_id}",
		Summary:       "Remove besluit link",
		DefaultStatus: http.StatusNoContent,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		zaakPath
		BesluitID string `path:"besluit_id"`
	}) (*struct{}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.RemoveZaakBesluit(ctx, input.BesluitID, clientID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerRelevanteZaken(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-zaakrelatie",
		Method:        http.MethodPost,
		Path:          "/zaken/{zaak_id}/relevante-zaken",
		Summary:       "Relate two zaken",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		zaakPath
		Body CreateRelevanteZaakRequest
	}) (*struct {
		Body domain.RelevanteZaak
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		rel, err := e.RelateZaken(ctx, input.ZaakID, input.Body.RelevanteZaak, input.Body.AardRelatie, clientID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.RelevanteZaak
		}{Body: rel}, nil
	})
}

func registerKlantContacten(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-klantcontact",
		Method:        http.MethodPost,
		Path:          "/klantcontacten",
		Summary:       "Register klantcontact on a zaak",
		DefaultStatus: http.StatusCreated,
		Errors:        mutationErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateKlantContactRequest
	}) (*struct {
		Body domain.KlantContact
	}, error) {
		if err := requireScope(ctx, e, auth.ScopeZakenBijwerken); err != nil {
			return nil, handleError(err)
		}
		clientID, authErr := clientIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		kc, err := e.AddKlantContact(ctx, engine.KlantContactAddOptions{
			ZaakID:      input.Body.Zaak,
			Datumtijd:   deref(input.Body.Datumtijd),
			Kanaal:      deref(input.Body.Kanaal),
			Onderwerp:   deref(input.Body.Onderwerp),
			Toelichting: deref(input.Body.Toelichting),
			ActorID:     clientID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.KlantContact
		}{Body: kc}, nil
	})
}
