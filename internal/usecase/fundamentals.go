package usecase

import (
	"context"
	"fmt"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	"FinScore/internal/services/fundamentals"
)

// FundamentalsService resolves a ticker's identity and normalizes its disclosures.
type FundamentalsService struct {
	ids   *IdentifierResolver
	facts drepo.FactsProvider
}

func NewFundamentalsService(ids *IdentifierResolver, facts drepo.FactsProvider) *FundamentalsService {
	return &FundamentalsService{ids: ids, facts: facts}
}

// Fetch returns the identity and normalized fundamentals for ticker. When the
// identity is known but facts fail, the identity is still returned with the error.
func (s *FundamentalsService) Fetch(ctx context.Context, ticker string) (models.CompanyIdentity, models.Fundamentals, error) {
	id, err := s.ids.Resolve(ctx, ticker)
	if err != nil {
		return models.CompanyIdentity{}, models.Fundamentals{}, err
	}
	facts, err := s.facts.CompanyFacts(ctx, id.Identifier)
	if err != nil {
		return id, models.Fundamentals{}, fmt.Errorf("facts for %s: %w", ticker, err)
	}
	if id.Name == "" {
		id.Name = facts.EntityName
	}
	return id, fundamentals.Normalize(facts), nil
}

// Identifiers exposes the resolver so the orchestrator can reload the seed per run.
func (s *FundamentalsService) Identifiers() *IdentifierResolver { return s.ids }
