package errorx

import "errors"

const errModerationPrefix = "MOD-ERR"

const (
	codeValidation = iota
	codeAPI
	codeModeration
)

var (
	// Description: The uploaded file is missing, has a disallowed extension, is empty or too large, or is not a supported image.
	//
	// Status: 400, the message is returned to the caller as is.
	ErrValidation error = CustomError{prefix: errModerationPrefix, code: codeValidation}

	// Description: The external classification API failed: non-2xx status, API reported failure or network fault.
	//
	// Status: never surfaced directly, the pipeline converts it to ErrModeration.
	ErrAPI error = CustomError{prefix: errModerationPrefix, code: codeAPI}

	// Description: Moderation could not be completed after the file was validated.
	//
	// Status: 503 with a generic message.
	ErrModeration error = CustomError{prefix: errModerationPrefix, code: codeModeration}
)

// Validation builds a caller-fixable error whose message is shown to the client.
func Validation(msg string, ctx context) error {
	return CustomError{
		prefix:  errModerationPrefix,
		code:    codeValidation,
		err:     errors.New(msg),
		context: ctx,
	}
}

// APIFailure wraps a failure of the classification API. statusCode is 0 for
// failures that never produced an HTTP response.
func APIFailure(err error, statusCode int, ctx context) error {
	if ctx == nil {
		ctx = Ctx()
	}
	if statusCode > 0 {
		ctx.Set("status_code", statusCode)
	}
	return CustomError{
		prefix:  errModerationPrefix,
		code:    codeAPI,
		err:     err,
		context: ctx,
	}
}

func ModerationFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errModerationPrefix,
		code:    codeModeration,
		err:     err,
		context: ctx,
	}
}

// StatusCode returns the HTTP status of the upstream response carried by an
// API error anywhere in the chain, if any.
func StatusCode(err error) (int, bool) {
	for _, e := range UnwrapAllError(err) {
		customErr, ok := e.(CustomError)
		if !ok {
			continue
		}
		if code, ok := customErr.context["status_code"].(int); ok {
			return code, true
		}
	}
	return 0, false
}
