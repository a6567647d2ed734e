package protocol

// Status is a JSON wire protocol status code.
type Status int

// JSON wire status codes used by the driver.
const (
	StatusSuccess           Status = 0
	StatusNoSuchDriver      Status = 6
	StatusUnknownCommand    Status = 9
	StatusUnknownError      Status = 13
	StatusTimeout           Status = 21
	StatusNoSuchWindow      Status = 23
	StatusSessionNotCreated Status = 33

	// StatusSessionNotFound is the name the driver uses for code 6.
	StatusSessionNotFound = StatusNoSuchDriver
)

// String returns the protocol name of the status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusNoSuchDriver:
		return "NoSuchDriver"
	case StatusUnknownCommand:
		return "UnknownCommand"
	case StatusUnknownError:
		return "UnknownError"
	case StatusTimeout:
		return "Timeout"
	case StatusNoSuchWindow:
		return "NoSuchWindow"
	case StatusSessionNotCreated:
		return "SessionNotCreated"
	default:
		return "Unknown"
	}
}
