package domain

// errors.go defines domain-specific error types.
type domainErr struct {
	message string
}

// Error returns the error message.
func (e domainErr) Error() string {
	return e.message
}

// NotFoundErr represents an error when a requested entity is not found.
type NotFoundErr struct {
	domainErr
}

// NewNotFoundErr creates a new NotFoundErr with the given message.
func NewNotFoundErr(message string) *NotFoundErr {
	return &NotFoundErr{
		domainErr: domainErr{message: message},
	}
}

// ValidationErr represents an error when validation fails.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{
		domainErr: domainErr{message: message},
	}
}

// ConflictErr represents an optimistic-concurrency failure: the stored theme
// snapshot version moved while an entry was being processed.
type ConflictErr struct {
	domainErr
}

// NewConflictErr creates a new ConflictErr with the given message.
func NewConflictErr(message string) *ConflictErr {
	return &ConflictErr{
		domainErr: domainErr{message: message},
	}
}

// BackendUnavailableErr represents a required model backend that could not be
// reached. Optional backends degrade instead of raising this.
type BackendUnavailableErr struct {
	domainErr
}

// NewBackendUnavailableErr creates a new BackendUnavailableErr with the given message.
func NewBackendUnavailableErr(message string) *BackendUnavailableErr {
	return &BackendUnavailableErr{
		domainErr: domainErr{message: message},
	}
}
