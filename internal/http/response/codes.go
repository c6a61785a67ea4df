package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
