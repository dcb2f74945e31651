package constants

const (
	ERROR_INTERNAL_ERROR     = "Internal server error"
	MISSING_LOGIN_INPUT      = "Phone number and password are required"
	INVALID_CREDENTIALS      = "Invalid credentials"
	CAN_NOT_HASH_PASSWORD    = "Cannot hash password"
	PHONE_ALREADY_REGISTERED = "Phone number already registered"
	DATA_INPUT_IS_NOT_NUMBER = "Bad request: data must be an integer"
	FORBIDDEN_USER           = "Token does not belong to this user"
	INVALID_TOKEN            = "Invalid token"
	ERROR_CREATE             = "Bad request: could not save"
	INVALID_COORDINATE       = "Bad request: lat and lng must be valid coordinates"
	ADDRESS_NOT_FOUND        = "Address not found"
	GEOCODER_UNAVAILABLE     = "Unable to fetch address"

	REGISTER_SUCCESS = "User registered successfully"
	ADDRESS_SUCCESS  = "address added successfully"

	TOKEN_TYPE = "bearer"
)
