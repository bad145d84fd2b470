package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogFormError maps an error from the forms engine to a response. Validation
// failures are sent as a 422 with the field-attributed list.
func LogFormError(w http.ResponseWriter, r *http.Request, code string, id any, err error) {
	var ve *forms.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Debugf("%s: %s", code, err)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"error":  ve.Kind.Error(),
			"errors": ve.Errors,
		})
	case errors.Is(err, forms.ErrNotFound):
		LogNotFound(w, code, id)
	case errors.Is(err, forms.ErrVersionConflict):
		LogStatus(w, http.StatusConflict, log.DebugLevel, code+".conflict")
	case errors.Is(err, forms.ErrUnauthorized):
		LogStatus(w, http.StatusForbidden, log.DebugLevel, code+".unauthorized")
	case errors.Is(err, forms.ErrDraftClosed):
		LogStatus(w, http.StatusConflict, log.DebugLevel, code+".draft_closed")
	default:
		LogInternalError(w, code, err)
	}
}
