package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/pkg/config"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/response"
)

// listDecoder turns a list response body into students.
type listDecoder func(body []byte) ([]models.Student, error)

func decoderFor(shape string) listDecoder {
	if shape == config.ShapeBare {
		return decodeBareCollection
	}
	return decodeCollectionEnvelope
}

// decodeCollectionEnvelope expects {"data": [...]}.
func decodeCollectionEnvelope(body []byte) ([]models.Student, error) {
	var env response.RawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, shapeError("collection envelope", err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, shapeError("collection envelope", fmt.Errorf("data field missing"))
	}
	return decodeBareCollection(data)
}

// decodeBareCollection expects a top-level JSON array.
func decodeBareCollection(body []byte) ([]models.Student, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, shapeError("bare collection", fmt.Errorf("expected JSON array"))
	}
	students := make([]models.Student, 0)
	if err := json.Unmarshal(trimmed, &students); err != nil {
		return nil, shapeError("bare collection", err)
	}
	return students, nil
}

func shapeError(shape string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrUnexpectedShape.Code, appErrors.ErrUnexpectedShape.Status, "decode "+shape)
}

// remoteErrorDetail extracts the server's error envelope from a rejection body, if any.
func remoteErrorDetail(body []byte) string {
	var env response.RawEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return ""
	}
	if env.Error.Code == "" {
		return env.Error.Message
	}
	return env.Error.Code + ": " + env.Error.Message
}
