package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	"FinScore/pkg/util"
)

// SeedFile reads the flat ticker -> {cik, name} JSON produced by the seed script.
type SeedFile struct {
	path string
}

// NewSeedFile returns a seed reader for path.
func NewSeedFile(path string) *SeedFile {
	return &SeedFile{path: path}
}

// Load returns the seed map. A missing file yields an empty map.
func (s *SeedFile) Load(_ context.Context) (map[string]models.CompanyIdentity, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]models.CompanyIdentity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", s.path, err)
	}
	var raw map[string]models.CompanyIdentity
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", s.path, err)
	}
	out := make(map[string]models.CompanyIdentity, len(raw))
	for t, id := range raw {
		cik, err := util.PadCIK(id.Identifier)
		if err != nil {
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(t))] = models.CompanyIdentity{Identifier: cik, Name: id.Name}
	}
	return out, nil
}

var _ drepo.IdentifierSeed = (*SeedFile)(nil)
