package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrTeamIDRequired       = errors.New("team id is required")
	ErrTournamentIDRequired = errors.New("tournament id is required")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrNameRequired         = errors.New("name is required")
	ErrSportRequired        = errors.New("sport is required")
	ErrTextRequired         = errors.New("text is required")
	ErrCredentialsRequired  = errors.New("username and password are required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPlayerIDRequired     = errors.New("player id is required")
	ErrSportMismatch        = errors.New("team sport does not match tournament sport")
	ErrTournamentNotOpen    = errors.New("applications are accepted only while the tournament is open")
	ErrInvalidRole          = errors.New("invalid role: must be one of Viewer, Host, Admin")
	ErrInvalidStatusFilter  = errors.New("invalid application status filter")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotTeamCaptain     = errors.New("only the team captain can apply on its behalf")
	ErrNotTournamentHost  = errors.New("caller does not host this tournament")

	// Ошибки «не найдено»
	ErrUserNotFound        = errors.New("user not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrApplicationNotFound = errors.New("pending application not found")

	// Конфликты
	ErrApplicationConflict = errors.New("team has already applied or entered this tournament")
)
