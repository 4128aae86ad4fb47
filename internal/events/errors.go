package events

import (
	stderrors "errors"

	"gigboard/internal/errors"
)

func responseForError(err error) PublishResponse {
	var de *errors.DomainError
	if stderrors.As(err, &de) {
		return PublishResponse{Error: de.Error(), Fields: de.Fields}
	}
	return PublishResponse{Error: err.Error()}
}
