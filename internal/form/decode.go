// AngelaMos | 2026
// decode.go

package form

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

const maxBodyBytes = 1 << 20

// Decode reads a JSON body into T and runs its validate tags. A body that is
// not valid JSON yields "invalid request body".
func Decode[T any](w http.ResponseWriter, r *http.Request, v *validator.Validate) (T, error) {
	var dst T

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&dst); err != nil {
		return dst, core.BadRequestError("invalid request body")
	}

	if err := core.Validate(v, dst); err != nil {
		return dst, err
	}

	return dst, nil
}
