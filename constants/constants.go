package constants

const (
	ResourceNotFound    = "{\"message\":\"We couldn't find this resource anywhere!\",\"error\":true}"
	NotFoundPage        = "{\"message\":\"This endpoint doesn't exist!\",\"error\":true}"
	BadRequest          = "{\"message\":\"You're doing something wrong!\",\"error\":true}"
	Forbidden           = "{\"message\":\"You're not allowed to do this!\",\"error\":true}"
	Unauthorized        = "{\"message\":\"You're not authorized to do this. Did you forget an API token?\",\"error\":true}"
	InternalServerError = "{\"message\":\"Something went wrong on our end!\",\"error\":true}"
	MethodNotAllowed    = "{\"message\":\"That method is not allowed for this endpoint!\",\"error\":true}"
	BodyRequired        = "{\"message\":\"This endpoint requires a request body!\",\"error\":true}"
	Success             = "{\"message\":\"Success!\",\"error\":false}"
	TestNotif           = "{\"message\":\"Push notifications are set up for your reminders!\",\"title\":\"Test notification\",\"icon\":\"\",\"error\":false}"
)
