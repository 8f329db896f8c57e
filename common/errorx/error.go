package errorx

import "errors"

// UnwrapAllError flattens err and everything it wraps, depth first.
func UnwrapAllError(err error) []error {
	if err == nil {
		return nil
	}

	var result []error
	result = append(result, err)

	if unwrapper, ok := err.(interface{ Unwrap() []error }); ok {
		for _, subErr := range unwrapper.Unwrap() {
			result = append(result, UnwrapAllError(subErr)...)
		}
		return result
	}

	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		if subErr := unwrapper.Unwrap(); subErr != nil {
			result = append(result, UnwrapAllError(subErr)...)
		}
	}

	return result
}

func GetFirstCustomError(err error) (CustomError, bool) {
	var customErr CustomError
	if errors.As(err, &customErr) {
		return customErr, true
	}
	return ErrUnknown, false
}
