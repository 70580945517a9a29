package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects field-specific validation failures of a single request.
// It unwraps to the sentinel of every failed field, so errors.Is matches any of them.
type Error struct {
	Fields map[string]string
	causes []error
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the sentinel errors of the failed fields.
func (e *Error) Unwrap() []error {
	return e.causes
}

// add records a failure of field caused by err.
func (e *Error) add(field string, err error) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = err.Error()
	e.causes = append(e.causes, err)
}

// orNil returns e when any field failed, nil otherwise.
func (e *Error) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
