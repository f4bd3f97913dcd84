// Package storage archives uploaded GPX documents so the original file can
// be re-downloaded after the simplified route has been stored.
package storage

import (
	"context"

	"backend-runplan/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	if baseURL == "" {
		baseURL = "https://storage.runplan.local"
	}
	return &Service{db: db, baseURL: baseURL}
}

// SaveGPX records an archived GPX upload and returns its id and URL. Kind is
// "route" for planned-route uploads and "race" for actual race logs.
func (s *Service) SaveGPX(ctx context.Context, userID, filename, kind string, sizeBytes int) (string, string, error) {
	id := uuid.NewString()
	url := s.baseURL + "/gpx/" + id + "/" + filename
	_, err := s.db.Exec(ctx, `
		INSERT INTO gpx_objects (id, user_id, filename, kind, size_bytes, url)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, id, userID, filename, kind, sizeBytes, url)
	if err != nil {
		return "", "", err
	}
	return id, url, nil
}
