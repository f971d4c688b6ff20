package common

// SessionHeaderName is the HTTP header used to carry the session token
// on requests to protected endpoints ("Authorization: Bearer <token>").
const SessionHeaderName = "Authorization"

// KeyLength is the size in bytes of the symmetric master key
// (AES-256 key derived with argon2id).
const KeyLength = 32
