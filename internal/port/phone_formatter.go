package port

type PhoneFormatter interface {
	// Normalize turns user input into the prefixed form sent to the backend
	Normalize(raw string) (string, error)

	// Denormalize turns a normalized number into its national display form
	Denormalize(normalized string) (string, error)
}
