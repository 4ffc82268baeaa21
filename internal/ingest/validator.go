package ingest

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/rider-gps/internal/models"
)

// ValidationError reports which fields of an inbound message were
// missing or mistyped. An empty Fields means the payload was not
// decodable at all.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "malformed location payload"
	}
	return "invalid location update: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names, not Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseLocationUpdate decodes and shape-checks one raw message.
// rider_id must be a non-empty string and both coordinates numeric;
// status falls back to "Available" only when the key is absent — an
// explicit empty string is kept as sent. Coordinates are not
// range-checked.
func ParseLocationUpdate(raw []byte) (models.LocationUpdate, error) {
	var upd models.LocationUpdate
	if err := json.Unmarshal(raw, &upd); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return upd, &ValidationError{Fields: []string{typeErr.Field}}
		}
		return upd, &ValidationError{}
	}
	if err := validate.Struct(upd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return upd, &ValidationError{Fields: fields}
		}
		return upd, &ValidationError{}
	}
	if upd.Status == nil {
		status := models.StatusAvailable
		upd.Status = &status
	}
	return upd, nil
}
