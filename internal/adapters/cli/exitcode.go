package cli

// Exit codes returned by Dispatcher.Run.
const (
	// ExitOK indicates every requested operation succeeded.
	ExitOK = 0

	// ExitUserError covers bad arguments, unknown ids and rejected input.
	ExitUserError = 1

	// ExitAuthError means the API refused the bearer token.
	ExitAuthError = 2

	// ExitBackendError covers transport failures and server errors.
	ExitBackendError = 3
)
