package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Scopes granted to applicaties.
const (
	ScopeZakenLezen         = "zaken.lezen"
	ScopeZakenAanmaken      = "zaken.aanmaken"
	ScopeZakenBijwerken     = "zaken.bijwerken"
	ScopeZakenGeforceerd    = "zaken.geforceerd-bijwerken"
	ScopeZakenVerwijderen   = "zaken.verwijderen"
	ScopeStatussenToevoegen = "zaken.statussen.toevoegen"
	ScopeZakenHeropenen     = "zaken.heropenen"
)

// AllScopes, in the order they are presented by the CLI.
var AllScopes = []string{
	ScopeZakenLezen,
	ScopeZakenAanmaken,
	ScopeZakenBijwerken,
	ScopeZakenGeforceerd,
	ScopeZakenVerwijderen,
	ScopeStatussenToevoegen,
	ScopeZakenHeropenen,
}

// ForbiddenError indicates a missing scope.
type ForbiddenError struct {
	Scope string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("scope %s required", e.Scope)
}

// Principal is the authenticated caller.
type Principal struct {
	ClientID string
	Scopes   []string
}

func (p Principal) Has(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}

// Require returns a ForbiddenError when the principal lacks the scope.
func Require(p Principal, scope string) error {
	if !p.Has(scope) {
		return ForbiddenError{Scope: scope}
	}
	return nil
}

// Service answers scope questions backed by the applicaties table.
type Service struct {
	DB *sql.DB
}

func (s Service) ApplicatieScopes(ctx context.Context, clientID string) ([]string, error) {
	var scopesJSON string
	err := s.DB.QueryRowContext(ctx, `SELECT scopes_json FROM applicaties WHERE client_id=?`, clientID).Scan(&scopesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var scopes []string
	if err := json.Unmarshal([]byte(scopesJSON), &scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (s Service) ApplicatieHasScope(ctx context.Context, clientID, scope string) (bool, error) {
	scopes, err := s.ApplicatieScopes(ctx, clientID)
	if err != nil {
		return false, err
	}
	return Principal{Scopes: scopes}.Has(scope), nil
}
