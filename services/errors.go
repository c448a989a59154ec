package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrDeadlinePassed          = errors.New("registration deadline has passed")
	ErrWrongParticipantKind    = errors.New("participant kind does not match the event (player vs team)")
	ErrRegistrationCancelled   = errors.New("registration is already cancelled")
	ErrRegistrationActive      = errors.New("registration must be cancelled before it can be deleted")
	ErrDuplicateRegistration   = errors.New("player or team is already registered for this event")
	ErrMatchAlreadyCompleted   = errors.New("match is already completed")
	ErrParticipantMismatch     = errors.New("participants do not match the match roster")
	ErrMatchNotScheduled       = errors.New("only scheduled matches can be modified or deleted")
	ErrEventInvalidCapacity    = errors.New("event max participants must be at least 2")
	ErrEventInvalidDateRange   = errors.New("event end date must be after start date")
	ErrEventInvalidDeadline    = errors.New("registration deadline must not be after the event start date")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrCaptainNotInMembers     = errors.New("team captain must be part of the roster")
	ErrStorageNotConfigured    = errors.New("file storage is not configured")
	ErrUnsupportedImageType    = errors.New("unsupported image content type")

	// Ошибки конфликтов
	ErrPlayerEmailConflict = errors.New("player email address is already in use")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrAdminConflict       = errors.New("admin with this email or username already exists")

	// Ошибки, специфичные для сущностей (могут дублировать ErrNotFound, но дают больше контекста)
	ErrEventNotFound        = errors.New("event not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrEntityInUse          = errors.New("entity is referenced by other records and cannot be deleted")
)
