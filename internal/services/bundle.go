package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sutms/taxii-api/internal/models"
	"github.com/sutms/taxii-api/pkg/dto"
)

// AssembleBundle wraps an ordered page of stored objects in a bundle
// envelope. The bundle id is generated fresh on every call and never
// persisted; payloads are passed through verbatim in input order.
func AssembleBundle(objects []models.StixObject) dto.Bundle {
	payloads := make([]json.RawMessage, 0, len(objects))
	for _, obj := range objects {
		payloads = append(payloads, obj.Raw)
	}
	return dto.Bundle{
		Type:    "bundle",
		ID:      "bundle--" + uuid.NewString(),
		Objects: payloads,
	}
}
